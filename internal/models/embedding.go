package models

// Embedding is one reference text chunk with its vector, scoped to a
// namespace. Rows are append-only; duplicate chunk IDs within a namespace
// are permitted and independently retrievable.
type Embedding struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Namespace string `gorm:"not null;index" json:"namespace"`
	ChunkID   string `gorm:"type:text;not null" json:"chunk_id"`
	Text      string `gorm:"type:text;not null" json:"text"`
	Vector    []byte `gorm:"type:bytea;not null" json:"-"`
}

func (Embedding) TableName() string {
	return "embeddings"
}
