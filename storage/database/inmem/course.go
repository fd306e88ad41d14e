package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/darasahq/darasa/core/course"
)

type courseRepository struct {
	db *DB
}

var _ course.CourseRepository = (*courseRepository)(nil)

func NewCourseRepository(db *DB) *courseRepository {
	return &courseRepository{db: db}
}

// hydrate fills the teacher summary and child counts. Callers hold the lock.
func (repo *courseRepository) hydrate(crs course.Course) course.Course {
	if t, ok := repo.db.users[crs.TeacherID]; ok {
		crs.Teacher = &course.TeacherInfo{ID: t.ID, Name: t.Name, Email: t.Email}
	}
	crs.LessonCount, crs.AssignmentCount, crs.EnrollmentCount = 0, 0, 0
	for _, lsn := range repo.db.lessons {
		if lsn.CourseID == crs.ID {
			crs.LessonCount++
		}
	}
	for _, asg := range repo.db.assignments {
		if asg.CourseID == crs.ID {
			crs.AssignmentCount++
		}
	}
	for _, enr := range repo.db.enrollments {
		if enr.CourseID == crs.ID {
			crs.EnrollmentCount++
		}
	}
	return crs
}

func (repo *courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	crs.ID = uuid.New().String()
	stored := crs
	repo.db.courses[crs.ID] = &stored
	return repo.hydrate(crs), nil
}

func (repo *courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	crs, ok := repo.db.courses[id]
	if !ok {
		return course.Course{}, course.ErrNotFound
	}
	return repo.hydrate(*crs), nil
}

func (repo *courseRepository) FilterCourses(ctx context.Context, filter course.QueryFilter, limit, offset int) ([]course.Course, int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	all := make([]course.Course, 0, len(repo.db.courses))
	for _, crs := range repo.db.courses {
		all = append(all, *crs)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	matches := make([]course.Course, 0)
	search := strings.ToLower(filter.Search)
	for _, crs := range all {
		if search != "" &&
			!strings.Contains(strings.ToLower(crs.Title), search) &&
			!strings.Contains(strings.ToLower(crs.Description), search) {
			continue
		}
		if filter.Status != "" && crs.Status != filter.Status {
			continue
		}
		if filter.TeacherID != "" && crs.TeacherID != filter.TeacherID {
			continue
		}
		matches = append(matches, repo.hydrate(crs))
	}

	total := len(matches)
	if offset >= total {
		return []course.Course{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matches[offset:end], total, nil
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.courses[crs.ID]; !ok {
		return course.Course{}, course.ErrNotFound
	}
	stored := crs
	stored.Teacher = nil
	repo.db.courses[crs.ID] = &stored
	return repo.hydrate(crs), nil
}

func (repo *courseRepository) DeleteCourse(ctx context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.courses[id]; !ok {
		return course.ErrNotFound
	}
	delete(repo.db.courses, id)

	// cascade
	for lid, lsn := range repo.db.lessons {
		if lsn.CourseID == id {
			delete(repo.db.lessons, lid)
		}
	}
	for aid, asg := range repo.db.assignments {
		if asg.CourseID == id {
			delete(repo.db.assignments, aid)
		}
	}
	for eid, enr := range repo.db.enrollments {
		if enr.CourseID == id {
			delete(repo.db.enrollments, eid)
		}
	}
	return nil
}

func (repo *courseRepository) CountCourses(ctx context.Context, status string) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if status == "" {
		return len(repo.db.courses), nil
	}
	var count int
	for _, crs := range repo.db.courses {
		if crs.Status == status {
			count++
		}
	}
	return count, nil
}

func (repo *courseRepository) TopCoursesByEnrollment(ctx context.Context, limit int) ([]course.TopCourse, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	top := make([]course.TopCourse, 0, len(repo.db.courses))
	for _, crs := range repo.db.courses {
		tc := course.TopCourse{ID: crs.ID, Title: crs.Title, Status: crs.Status}
		if t, ok := repo.db.users[crs.TeacherID]; ok {
			tc.Teacher = t.Name
		}
		for _, enr := range repo.db.enrollments {
			if enr.CourseID == crs.ID {
				tc.Enrollments++
			}
		}
		top = append(top, tc)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Enrollments != top[j].Enrollments {
			return top[i].Enrollments > top[j].Enrollments
		}
		return top[i].Title < top[j].Title
	})

	if len(top) > limit {
		top = top[:limit]
	}
	return top, nil
}

// Lessons

type lessonRepository struct {
	db *DB
}

var _ course.LessonRepository = (*lessonRepository)(nil)

func NewLessonRepository(db *DB) *lessonRepository {
	return &lessonRepository{db: db}
}

func (repo *lessonRepository) CreateLesson(ctx context.Context, lsn course.Lesson) (course.Lesson, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	lsn.ID = uuid.New().String()
	repo.db.lessons[lsn.ID] = &lsn
	return lsn, nil
}

func (repo *lessonRepository) GetLessonByID(ctx context.Context, id string) (course.Lesson, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if lsn, ok := repo.db.lessons[id]; ok {
		return *lsn, nil
	}
	return course.Lesson{}, course.ErrLessonNotFound
}

func (repo *lessonRepository) QueryLessonsByCourse(ctx context.Context, courseID string) ([]course.Lesson, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	lessons := make([]course.Lesson, 0)
	for _, lsn := range repo.db.lessons {
		if lsn.CourseID == courseID {
			lessons = append(lessons, *lsn)
		}
	}
	sort.Slice(lessons, func(i, j int) bool { return lessons[i].Order < lessons[j].Order })
	return lessons, nil
}

func (repo *lessonRepository) UpdateLesson(ctx context.Context, lsn course.Lesson) (course.Lesson, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.lessons[lsn.ID]; !ok {
		return course.Lesson{}, course.ErrLessonNotFound
	}
	repo.db.lessons[lsn.ID] = &lsn
	return lsn, nil
}

func (repo *lessonRepository) DeleteLesson(ctx context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.lessons[id]; !ok {
		return course.ErrLessonNotFound
	}
	delete(repo.db.lessons, id)
	return nil
}

// Assignments

type assignmentRepository struct {
	db *DB
}

var _ course.AssignmentRepository = (*assignmentRepository)(nil)

func NewAssignmentRepository(db *DB) *assignmentRepository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, asg course.Assignment) (course.Assignment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	asg.ID = uuid.New().String()
	repo.db.assignments[asg.ID] = &asg
	return asg, nil
}

func (repo *assignmentRepository) GetAssignmentByID(ctx context.Context, id string) (course.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if asg, ok := repo.db.assignments[id]; ok {
		return *asg, nil
	}
	return course.Assignment{}, course.ErrAssignmentNotFound
}

func (repo *assignmentRepository) QueryAssignmentsByCourse(ctx context.Context, courseID string) ([]course.Assignment, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	assignments := make([]course.Assignment, 0)
	for _, asg := range repo.db.assignments {
		if asg.CourseID == courseID {
			assignments = append(assignments, *asg)
		}
	}
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].DueDate.Before(assignments[j].DueDate) })
	return assignments, nil
}

func (repo *assignmentRepository) UpdateAssignment(ctx context.Context, asg course.Assignment) (course.Assignment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.assignments[asg.ID]; !ok {
		return course.Assignment{}, course.ErrAssignmentNotFound
	}
	repo.db.assignments[asg.ID] = &asg
	return asg, nil
}

func (repo *assignmentRepository) DeleteAssignment(ctx context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.assignments[id]; !ok {
		return course.ErrAssignmentNotFound
	}
	delete(repo.db.assignments, id)
	return nil
}

func (repo *assignmentRepository) CountAssignments(ctx context.Context) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return len(repo.db.assignments), nil
}
