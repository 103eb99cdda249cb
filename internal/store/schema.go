package store

const schemaVersion = 3

const schemaSQL = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	name TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	profile_public INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
	token TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	expires_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS sessions_by_user ON sessions(user_id);

CREATE TABLE IF NOT EXISTS folders (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	parent_id TEXT,
	name TEXT NOT NULL,
	slug TEXT NOT NULL,
	is_public INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS folders_by_user ON folders(user_id);
CREATE INDEX IF NOT EXISTS folders_by_parent ON folders(user_id, parent_id);

CREATE TABLE IF NOT EXISTS notes (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	folder_id TEXT,
	title TEXT NOT NULL,
	slug TEXT,
	content TEXT NOT NULL DEFAULT '',
	tags TEXT NOT NULL DEFAULT '[]',
	is_public INTEGER NOT NULL DEFAULT 0,
	content_hash TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS notes_by_user ON notes(user_id);
CREATE INDEX IF NOT EXISTS notes_by_folder ON notes(user_id, folder_id);

CREATE VIRTUAL TABLE IF NOT EXISTS notes_fts USING fts5(
	note_id UNINDEXED,
	title,
	body
);
`
