// Package policy holds the capability table consulted by the API layer for
// object-level authorization. Route-level role gates stay in the middleware;
// this table answers the finer question of whether a given user may perform
// an action on a given object.
package policy

import (
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/user"
)

type (
	Resource string
	Action   string
)

const (
	ResourceUser       Resource = "user"
	ResourceCourse     Resource = "course"
	ResourceLesson     Resource = "lesson"
	ResourceAssignment Resource = "assignment"
	ResourceEnrollment Resource = "enrollment"
	ResourceGrade      Resource = "grade"
	ResourceDashboard  Resource = "dashboard"
)

const (
	ActionList   Action = "list"
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Predicate decides whether usr may act on obj. A nil predicate grants
// unconditionally for the role.
type Predicate func(usr user.User, obj interface{}) bool

// ownsCourse grants teachers acting on their own courses. For lesson and
// assignment actions the parent course is the object.
func ownsCourse(usr user.User, obj interface{}) bool {
	switch crs := obj.(type) {
	case course.Course:
		return crs.TeacherID == usr.ID
	case *course.Course:
		return crs != nil && crs.TeacherID == usr.ID
	case course.NewCourse:
		return crs.TeacherID == usr.ID
	}
	return false
}

// canViewCourse grants teachers their own courses plus anyone's published ones.
func canViewCourse(usr user.User, obj interface{}) bool {
	crs, ok := obj.(course.Course)
	if !ok {
		return false
	}
	return crs.TeacherID == usr.ID || crs.Status == course.StatusPublished
}

// publishedCourse grants access to published courses only.
func publishedCourse(_ user.User, obj interface{}) bool {
	crs, ok := obj.(course.Course)
	return ok && crs.Status == course.StatusPublished
}

// self grants users acting on their own record.
func self(usr user.User, obj interface{}) bool {
	switch other := obj.(type) {
	case user.User:
		return other.ID == usr.ID
	case string:
		return other == usr.ID
	}
	return false
}

var rules = map[Resource]map[Action]map[string]Predicate{
	ResourceUser: {
		ActionList:   {user.RoleAdmin: nil},
		ActionRead:   {user.RoleAdmin: nil},
		ActionCreate: {user.RoleAdmin: nil},
		ActionUpdate: {user.RoleAdmin: nil},
		ActionDelete: {user.RoleAdmin: nil},
	},
	ResourceCourse: {
		ActionList: {user.RoleAdmin: nil, user.RoleTeacher: nil, user.RoleStudent: nil},
		ActionRead: {
			user.RoleAdmin:   nil,
			user.RoleTeacher: canViewCourse,
			user.RoleStudent: publishedCourse,
		},
		ActionCreate: {user.RoleAdmin: nil, user.RoleTeacher: ownsCourse},
		ActionUpdate: {user.RoleAdmin: nil, user.RoleTeacher: ownsCourse},
		ActionDelete: {user.RoleAdmin: nil, user.RoleTeacher: ownsCourse},
	},
	ResourceLesson: {
		ActionList: {
			user.RoleAdmin:   nil,
			user.RoleTeacher: canViewCourse,
			user.RoleStudent: publishedCourse,
		},
		ActionCreate: {user.RoleAdmin: nil, user.RoleTeacher: ownsCourse},
		ActionUpdate: {user.RoleAdmin: nil, user.RoleTeacher: ownsCourse},
		ActionDelete: {user.RoleAdmin: nil, user.RoleTeacher: ownsCourse},
	},
	ResourceAssignment: {
		ActionList: {
			user.RoleAdmin:   nil,
			user.RoleTeacher: canViewCourse,
			user.RoleStudent: publishedCourse,
		},
		ActionCreate: {user.RoleAdmin: nil, user.RoleTeacher: ownsCourse},
		ActionUpdate: {user.RoleAdmin: nil, user.RoleTeacher: ownsCourse},
		ActionDelete: {user.RoleAdmin: nil, user.RoleTeacher: ownsCourse},
	},
	ResourceEnrollment: {
		// listing and creation are self-scoped by the handler
		ActionList:   {user.RoleAdmin: nil, user.RoleTeacher: nil, user.RoleStudent: nil},
		ActionCreate: {user.RoleAdmin: nil, user.RoleTeacher: nil, user.RoleStudent: nil},
	},
	ResourceGrade: {
		ActionList: {
			user.RoleAdmin:   nil,
			user.RoleTeacher: nil,
			user.RoleStudent: self,
		},
	},
	ResourceDashboard: {
		ActionRead: {user.RoleAdmin: nil},
	},
}

// Allows reports whether usr may perform act on res with the given object.
// Unknown resource/action/role combinations deny.
func Allows(usr user.User, res Resource, act Action, obj interface{}) bool {
	byAction, ok := rules[res]
	if !ok {
		return false
	}
	byRole, ok := byAction[act]
	if !ok {
		return false
	}
	pred, ok := byRole[usr.Role]
	if !ok {
		return false
	}
	if pred == nil {
		return true
	}
	return pred(usr, obj)
}
