package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a unique field (e.g. an email) is already taken.
var ErrConflict = errors.New("already exists")

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// Course is a course together with the skills it teaches. Skills are owned
// by the course and are replaced as a whole on update.
type Course struct {
	ID                 int64     `json:"id"`
	Title              string    `json:"courseTitle"`
	Description        string    `json:"description"`
	TrainerName        string    `json:"name"`
	TrainerDesignation string    `json:"trainerDesignation"`
	ImageURL           string    `json:"imageUrl"`
	CoverImage         string    `json:"coverImage"`
	Skills             []string  `json:"skills"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DOB          string    `json:"dob,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserProfile is tied 1:1 to a user account by email.
type UserProfile struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Interests     string    `json:"interests"`
	Role          string    `json:"role"`
	Certification string    `json:"certification"`
	Achievements  string    `json:"achievements"`
	CareerGoal    string    `json:"careerGoal"`
	Skills        []string  `json:"skills"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Playlist is a single video entry belonging to a course.
type Playlist struct {
	ID         int64  `json:"id"`
	CourseID   int64  `json:"courseid"`
	Title      string `json:"title"`
	CoverImage string `json:"coverImage"`
	VideoURL   string `json:"videoUrl"`
}

type JobPosting struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	ApplyURL    string    `json:"applyUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Message struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Body      string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type Session struct {
	Token     string
	UserID    int64
	Email     string
	Name      string
	Role      string
	CreatedAt time.Time
	ExpiresAt time.Time
}
