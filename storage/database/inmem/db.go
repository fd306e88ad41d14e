// Package inmemdb provides map-backed repositories. It backs the API test
// suite and local hacking without a postgres instance.
package inmemdb

import (
	"sort"
	"sync"
	"time"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/enroll"
	"github.com/darasahq/darasa/core/grade"
	"github.com/darasahq/darasa/core/user"
)

type DB struct {
	mutex sync.RWMutex

	users         map[string]*user.User
	courses       map[string]*course.Course
	lessons       map[string]*course.Lesson
	assignments   map[string]*course.Assignment
	enrollments   map[string]*enroll.Enrollment
	grades        map[string]*grade.Grade
	notifications map[string]*enroll.Notification
}

func Open() *DB {
	db := new(DB)
	db.reset()
	return db
}

func (db *DB) reset() {
	db.users = make(map[string]*user.User)
	db.courses = make(map[string]*course.Course)
	db.lessons = make(map[string]*course.Lesson)
	db.assignments = make(map[string]*course.Assignment)
	db.enrollments = make(map[string]*enroll.Enrollment)
	db.grades = make(map[string]*grade.Grade)
	db.notifications = make(map[string]*enroll.Notification)
}

// Reset drops all stored data. Used by tests.
func (db *DB) Reset() {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.reset()
}

// trend groups timestamps per day since the given time, oldest day first.
func trend(times []time.Time, since time.Time) []core.TrendPoint {
	counts := make(map[string]int)
	for _, t := range times {
		if t.Before(since) {
			continue
		}
		counts[t.UTC().Format("2006-01-02")]++
	}

	dates := make([]string, 0, len(counts))
	for date := range counts {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	points := make([]core.TrendPoint, 0, len(dates))
	for _, date := range dates {
		points = append(points, core.TrendPoint{Date: date, Count: counts[date]})
	}
	return points
}
