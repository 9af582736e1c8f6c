package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// --- Playlists ---

func (s *Store) CreatePlaylist(p Playlist) (Playlist, error) {
	res, err := s.db.Exec(`
		INSERT INTO playlists (course_id, title, cover_image, video_url) VALUES (?, ?, ?, ?)`,
		p.CourseID, p.Title, p.CoverImage, p.VideoURL,
	)
	if err != nil {
		return Playlist{}, fmt.Errorf("inserting playlist entry: %w", err)
	}
	if p.ID, err = res.LastInsertId(); err != nil {
		return Playlist{}, err
	}
	return p, nil
}

func (s *Store) GetPlaylist(id int64) (Playlist, error) {
	var p Playlist
	err := s.db.QueryRow(`SELECT id, course_id, title, cover_image, video_url FROM playlists WHERE id = ?`, id).
		Scan(&p.ID, &p.CourseID, &p.Title, &p.CoverImage, &p.VideoURL)
	if errors.Is(err, sql.ErrNoRows) {
		return Playlist{}, ErrNotFound
	}
	return p, err
}

// ListPlaylistsByCourse returns the course's videos in insertion order.
func (s *Store) ListPlaylistsByCourse(courseID int64) ([]Playlist, error) {
	rows, err := s.db.Query(`
		SELECT id, course_id, title, cover_image, video_url FROM playlists
		WHERE course_id = ? ORDER BY id ASC`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Playlist
	for rows.Next() {
		var p Playlist
		if err := rows.Scan(&p.ID, &p.CourseID, &p.Title, &p.CoverImage, &p.VideoURL); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) UpdatePlaylist(p Playlist) error {
	res, err := s.db.Exec(`
		UPDATE playlists SET course_id = ?, title = ?, cover_image = ?, video_url = ? WHERE id = ?`,
		p.CourseID, p.Title, p.CoverImage, p.VideoURL, p.ID,
	)
	if err != nil {
		return err
	}
	return affectedOne(res)
}

func (s *Store) DeletePlaylist(id int64) error {
	res, err := s.db.Exec(`DELETE FROM playlists WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affectedOne(res)
}

// --- Job postings ---

func (s *Store) CreateJobPosting(j JobPosting) (JobPosting, error) {
	now := s.timestamp()
	res, err := s.db.Exec(`
		INSERT INTO job_postings (title, company, location, description, apply_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		j.Title, j.Company, j.Location, j.Description, j.ApplyURL, now,
	)
	if err != nil {
		return JobPosting{}, fmt.Errorf("inserting job posting: %w", err)
	}
	if j.ID, err = res.LastInsertId(); err != nil {
		return JobPosting{}, err
	}
	j.CreatedAt, _ = parseTime("created_at", now)
	return j, nil
}

func (s *Store) GetJobPosting(id int64) (JobPosting, error) {
	var j JobPosting
	var createdAt string
	err := s.db.QueryRow(`
		SELECT id, title, company, location, description, apply_url, created_at
		FROM job_postings WHERE id = ?`, id,
	).Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.Description, &j.ApplyURL, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return JobPosting{}, ErrNotFound
	}
	if err != nil {
		return JobPosting{}, err
	}
	if j.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return JobPosting{}, err
	}
	return j, nil
}

// ListJobPostings returns postings newest first.
func (s *Store) ListJobPostings(limit, offset int) ([]JobPosting, error) {
	rows, err := s.db.Query(`
		SELECT id, title, company, location, description, apply_url, created_at
		FROM job_postings ORDER BY id DESC LIMIT ? OFFSET ?`, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []JobPosting
	for rows.Next() {
		var j JobPosting
		var createdAt string
		if err := rows.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.Description, &j.ApplyURL, &createdAt); err != nil {
			return nil, err
		}
		if j.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (s *Store) DeleteJobPosting(id int64) error {
	res, err := s.db.Exec(`DELETE FROM job_postings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affectedOne(res)
}

// --- Messages ---

func (s *Store) SaveMessage(m Message) (Message, error) {
	now := s.timestamp()
	res, err := s.db.Exec(`
		INSERT INTO messages (name, email, subject, body, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.Name, m.Email, m.Subject, m.Body, now,
	)
	if err != nil {
		return Message{}, fmt.Errorf("inserting message: %w", err)
	}
	if m.ID, err = res.LastInsertId(); err != nil {
		return Message{}, err
	}
	m.CreatedAt, _ = parseTime("created_at", now)
	return m, nil
}

// ListMessages returns messages newest first.
func (s *Store) ListMessages(limit, offset int) ([]Message, error) {
	rows, err := s.db.Query(`
		SELECT id, name, email, subject, body, created_at
		FROM messages ORDER BY id DESC LIMIT ? OFFSET ?`, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		var createdAt string
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &createdAt); err != nil {
			return nil, err
		}
		if m.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
