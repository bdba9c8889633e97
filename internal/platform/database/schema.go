package database

import (
	"database/sql"
	"fmt"
)

// Schema is the full relational schema. Statements are idempotent so the
// bootstrap can run on every start.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id VARCHAR(36) PRIMARY KEY,
	email VARCHAR(255) NOT NULL,
	password_hash VARCHAR(255) NOT NULL,
	name VARCHAR(100) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (LOWER(email));

CREATE TABLE IF NOT EXISTS workshops (
	id VARCHAR(36) PRIMARY KEY,
	title VARCHAR(200) NOT NULL,
	description TEXT NOT NULL,
	slug VARCHAR(220) NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	signup_enabled BOOLEAN NOT NULL DEFAULT TRUE,
	workshop_date DATE,
	venue_type VARCHAR(20) NOT NULL DEFAULT 'online',
	venue_address TEXT,
	owner_id VARCHAR(36) REFERENCES users(id) ON DELETE SET NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_workshops_owner ON workshops (owner_id);
CREATE INDEX IF NOT EXISTS idx_workshops_status ON workshops (status);

CREATE TABLE IF NOT EXISTS participants (
	id VARCHAR(36) PRIMARY KEY,
	workshop_id VARCHAR(36) NOT NULL REFERENCES workshops(id) ON DELETE CASCADE,
	user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	requested_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	approved_at TIMESTAMPTZ,
	approved_by VARCHAR(36) REFERENCES users(id) ON DELETE SET NULL,
	CONSTRAINT unique_workshop_user UNIQUE (workshop_id, user_id)
);
CREATE INDEX IF NOT EXISTS idx_participants_workshop ON participants (workshop_id);
CREATE INDEX IF NOT EXISTS idx_participants_user ON participants (user_id);
CREATE INDEX IF NOT EXISTS idx_participants_status ON participants (status);

CREATE TABLE IF NOT EXISTS challenges (
	id VARCHAR(36) PRIMARY KEY,
	workshop_id VARCHAR(36) NOT NULL REFERENCES workshops(id) ON DELETE CASCADE,
	title VARCHAR(200) NOT NULL,
	description TEXT NOT NULL,
	html_content TEXT,
	solution TEXT,
	order_index INT NOT NULL DEFAULT 0,
	points INT NOT NULL DEFAULT 20,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_challenges_workshop ON challenges (workshop_id);

CREATE TABLE IF NOT EXISTS challenge_submissions (
	id VARCHAR(36) PRIMARY KEY,
	user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	challenge_id VARCHAR(36) NOT NULL REFERENCES challenges(id) ON DELETE CASCADE,
	submission_text TEXT,
	submission_url TEXT,
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	points_earned INT NOT NULL DEFAULT 0,
	feedback TEXT,
	reviewed_by VARCHAR(36) REFERENCES users(id) ON DELETE SET NULL,
	reviewed_at TIMESTAMPTZ,
	submitted_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT unique_user_challenge UNIQUE (user_id, challenge_id)
);
CREATE INDEX IF NOT EXISTS idx_submissions_challenge ON challenge_submissions (challenge_id);

CREATE TABLE IF NOT EXISTS lessons (
	id VARCHAR(36) PRIMARY KEY,
	workshop_id VARCHAR(36) NOT NULL REFERENCES workshops(id) ON DELETE CASCADE,
	title VARCHAR(200) NOT NULL,
	description TEXT,
	content TEXT,
	order_index INT NOT NULL DEFAULT 0,
	points INT NOT NULL DEFAULT 10,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_lessons_workshop ON lessons (workshop_id);

CREATE TABLE IF NOT EXISTS lesson_materials (
	id VARCHAR(36) PRIMARY KEY,
	lesson_id VARCHAR(36) NOT NULL REFERENCES lessons(id) ON DELETE CASCADE,
	material_type VARCHAR(10) NOT NULL,
	title VARCHAR(200) NOT NULL,
	url TEXT NOT NULL,
	file_size BIGINT,
	duration INT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_materials_lesson ON lesson_materials (lesson_id);

CREATE TABLE IF NOT EXISTS user_progress (
	id VARCHAR(36) PRIMARY KEY,
	user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	lesson_id VARCHAR(36) NOT NULL REFERENCES lessons(id) ON DELETE CASCADE,
	completed BOOLEAN NOT NULL DEFAULT FALSE,
	completed_at TIMESTAMPTZ,
	points_earned INT NOT NULL DEFAULT 0,
	CONSTRAINT unique_user_lesson UNIQUE (user_id, lesson_id)
);

CREATE TABLE IF NOT EXISTS exams (
	id VARCHAR(36) PRIMARY KEY,
	workshop_id VARCHAR(36) NOT NULL REFERENCES workshops(id) ON DELETE CASCADE,
	title VARCHAR(200) NOT NULL,
	description TEXT,
	duration_minutes INT NOT NULL DEFAULT 60,
	passing_score INT NOT NULL DEFAULT 70,
	points INT NOT NULL DEFAULT 50,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_exams_workshop ON exams (workshop_id);

CREATE TABLE IF NOT EXISTS exam_questions (
	id VARCHAR(36) PRIMARY KEY,
	exam_id VARCHAR(36) NOT NULL REFERENCES exams(id) ON DELETE CASCADE,
	question_text TEXT NOT NULL,
	question_type VARCHAR(30) NOT NULL DEFAULT 'multiple_choice',
	options JSONB,
	correct_answer TEXT NOT NULL,
	points INT NOT NULL DEFAULT 10,
	order_index INT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_questions_exam ON exam_questions (exam_id);

CREATE TABLE IF NOT EXISTS exam_attempts (
	id VARCHAR(36) PRIMARY KEY,
	user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	exam_id VARCHAR(36) NOT NULL REFERENCES exams(id) ON DELETE CASCADE,
	answers JSONB NOT NULL DEFAULT '{}',
	score INT,
	points_earned INT NOT NULL DEFAULT 0,
	passed BOOLEAN NOT NULL DEFAULT FALSE,
	started_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	submitted_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_attempts_user_exam ON exam_attempts (user_id, exam_id);

CREATE TABLE IF NOT EXISTS user_points (
	user_id VARCHAR(36) PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
	total_points INT NOT NULL DEFAULT 0,
	lessons_completed INT NOT NULL DEFAULT 0,
	challenges_completed INT NOT NULL DEFAULT 0,
	exams_passed INT NOT NULL DEFAULT 0,
	current_rank INT NOT NULL DEFAULT 0,
	previous_rank INT NOT NULL DEFAULT 0,
	last_updated TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS leaderboard_history (
	id VARCHAR(36) PRIMARY KEY,
	user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	rank_position INT NOT NULL,
	total_points INT NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_history_user ON leaderboard_history (user_id);
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("database.Migrate: %w", err)
	}
	return nil
}
