package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

const insertCourseSkill = `INSERT INTO course_skills (course_id, skill) VALUES (?, ?)`

const courseColumns = `id, title, description, trainer_name, trainer_designation, image_url, cover_image, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (Course, error) {
	var c Course
	var createdAt, updatedAt string
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.TrainerName, &c.TrainerDesignation,
		&c.ImageURL, &c.CoverImage, &createdAt, &updatedAt); err != nil {
		return Course{}, err
	}
	var err error
	if c.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return Course{}, err
	}
	if c.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return Course{}, err
	}
	return c, nil
}

// CreateCourse inserts a course and its skills in one transaction and
// returns the stored course with its assigned ID.
func (s *Store) CreateCourse(c Course) (Course, error) {
	now := s.timestamp()

	tx, err := s.db.Begin()
	if err != nil {
		return Course{}, fmt.Errorf("beginning course insert: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO courses (title, description, trainer_name, trainer_designation, image_url, cover_image, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Title, c.Description, c.TrainerName, c.TrainerDesignation, c.ImageURL, c.CoverImage, now, now,
	)
	if err != nil {
		return Course{}, fmt.Errorf("inserting course: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Course{}, err
	}

	if err := insertSkills(tx, insertCourseSkill, id, c.Skills); err != nil {
		return Course{}, err
	}
	if err := tx.Commit(); err != nil {
		return Course{}, fmt.Errorf("committing course insert: %w", err)
	}

	return s.GetCourse(id)
}

func (s *Store) GetCourse(id int64) (Course, error) {
	c, err := scanCourse(s.db.QueryRow(`SELECT `+courseColumns+` FROM courses WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Course{}, ErrNotFound
	}
	if err != nil {
		return Course{}, err
	}

	skills, err := s.courseSkills(id)
	if err != nil {
		return Course{}, err
	}
	c.Skills = skills
	return c, nil
}

// ListCourses returns every course in ascending ID order with its skills.
// Courses without skills have a non-nil empty Skills slice.
func (s *Store) ListCourses() ([]Course, error) {
	rows, err := s.db.Query(`SELECT ` + courseColumns + ` FROM courses ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []Course
	index := make(map[int64]int)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		c.Skills = []string{}
		index[c.ID] = len(courses)
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return courses, nil
	}

	skillRows, err := s.db.Query(`SELECT course_id, skill FROM course_skills ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer skillRows.Close()

	for skillRows.Next() {
		var courseID int64
		var skill string
		if err := skillRows.Scan(&courseID, &skill); err != nil {
			return nil, err
		}
		if i, ok := index[courseID]; ok {
			courses[i].Skills = append(courses[i].Skills, skill)
		}
	}
	return courses, skillRows.Err()
}

// UpdateCourse overwrites the course's descriptive fields. When c.Skills is
// nil the existing skills are kept; otherwise they are replaced by c.Skills
// (an empty non-nil slice clears them).
func (s *Store) UpdateCourse(c Course) (Course, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return Course{}, fmt.Errorf("beginning course update: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE courses SET title = ?, description = ?, trainer_name = ?, trainer_designation = ?,
			image_url = ?, cover_image = ?, updated_at = ?
		WHERE id = ?`,
		c.Title, c.Description, c.TrainerName, c.TrainerDesignation, c.ImageURL, c.CoverImage, s.timestamp(), c.ID,
	)
	if err != nil {
		return Course{}, fmt.Errorf("updating course %d: %w", c.ID, err)
	}
	if err := affectedOne(res); err != nil {
		return Course{}, err
	}

	if c.Skills != nil {
		if _, err := tx.Exec(`DELETE FROM course_skills WHERE course_id = ?`, c.ID); err != nil {
			return Course{}, fmt.Errorf("clearing skills of course %d: %w", c.ID, err)
		}
		if err := insertSkills(tx, insertCourseSkill, c.ID, c.Skills); err != nil {
			return Course{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Course{}, fmt.Errorf("committing course update: %w", err)
	}
	return s.GetCourse(c.ID)
}

// DeleteCourse removes the course; its skills and playlist entries cascade.
func (s *Store) DeleteCourse(id int64) error {
	res, err := s.db.Exec(`DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affectedOne(res)
}

func (s *Store) CountCourses() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM courses`).Scan(&n)
	return n, err
}

func (s *Store) courseSkills(courseID int64) ([]string, error) {
	rows, err := s.db.Query(`SELECT skill FROM course_skills WHERE course_id = ? ORDER BY id ASC`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skills := []string{}
	for rows.Next() {
		var sk string
		if err := rows.Scan(&sk); err != nil {
			return nil, err
		}
		skills = append(skills, sk)
	}
	return skills, rows.Err()
}
