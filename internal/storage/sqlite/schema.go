// ABOUTME: SQLite database schema for the document index
// ABOUTME: Creates chunk, embedding, and index metadata tables
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Index metadata singleton: present only when a complete build committed
CREATE TABLE IF NOT EXISTS index_meta (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    fingerprint TEXT NOT NULL,
    embedding_model TEXT NOT NULL,
    chunk_size INTEGER NOT NULL,
    chunk_overlap INTEGER NOT NULL,
    page_count INTEGER NOT NULL,
    chunk_count INTEGER NOT NULL,
    built_at DATETIME NOT NULL
);

-- Chunks table (one row per retrieval unit)
CREATE TABLE IF NOT EXISTS chunks (
    id TEXT PRIMARY KEY,
    page_number INTEGER NOT NULL,
    ordinal INTEGER NOT NULL,
    start_offset INTEGER NOT NULL,
    end_offset INTEGER NOT NULL,
    content TEXT NOT NULL
);

-- Embeddings table (vector storage, one vector per chunk)
CREATE TABLE IF NOT EXISTS embeddings (
    chunk_id TEXT PRIMARY KEY REFERENCES chunks(id) ON DELETE CASCADE,
    vector BLOB NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_chunks_page ON chunks(page_number, ordinal);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
