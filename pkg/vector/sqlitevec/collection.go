package sqlitevec

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/papercomputeco/namematch/pkg/vector"
)

// collection implements vector.Driver for one named collection.
type collection struct {
	db     *sql.DB
	id     int64
	name   string
	table  string
	logger *slog.Logger
}

// Add stores documents with their embeddings.
// If a document with the same ID already exists, it is updated.
func (c *collection) Add(ctx context.Context, docs []vector.Document) error {
	if len(docs) == 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	insertVec := fmt.Sprintf(`INSERT INTO %s(rowid, embedding) VALUES (?, ?)`, c.table)
	deleteVec := fmt.Sprintf(`DELETE FROM %s WHERE rowid = ?`, c.table)

	for _, doc := range docs {
		embBlob := serializeFloat32(doc.Embedding)

		var existingRowID int64
		err = tx.QueryRowContext(ctx,
			`SELECT rowid FROM documents WHERE collection_id = ? AND doc_id = ?`, c.id, doc.ID,
		).Scan(&existingRowID)

		switch err {
		case nil:
			if _, err := tx.ExecContext(ctx,
				`UPDATE documents SET text = ? WHERE rowid = ?`,
				doc.Text, existingRowID,
			); err != nil {
				return fmt.Errorf("updating document %s: %w", doc.ID, err)
			}

			// vec0 does not support UPDATE
			if _, err := tx.ExecContext(ctx, deleteVec, existingRowID); err != nil {
				return fmt.Errorf("deleting old embedding for doc %s: %w", doc.ID, err)
			}
			if _, err := tx.ExecContext(ctx, insertVec, existingRowID, embBlob); err != nil {
				return fmt.Errorf("re-inserting embedding for doc %s: %w", doc.ID, err)
			}
		case sql.ErrNoRows:
			result, err := tx.ExecContext(ctx,
				`INSERT INTO documents(collection_id, doc_id, text) VALUES (?, ?, ?)`,
				c.id, doc.ID, doc.Text,
			)
			if err != nil {
				return fmt.Errorf("inserting document %s: %w", doc.ID, err)
			}

			rowID, err := result.LastInsertId()
			if err != nil {
				return fmt.Errorf("getting rowid for doc %s: %w", doc.ID, err)
			}

			if _, err := tx.ExecContext(ctx, insertVec, rowID, embBlob); err != nil {
				return fmt.Errorf("inserting embedding for doc %s: %w", doc.ID, err)
			}
		default:
			return fmt.Errorf("checking for existing document %s: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	c.logger.Debug("added documents to sqlite-vec",
		"collection", c.name,
		"count", len(docs),
	)

	return nil
}

// Query finds the topK most similar documents to the given embedding.
// Scores are cosine similarities (1 - cosine distance).
func (c *collection) Query(ctx context.Context, embedding []float32, topK int) ([]vector.Match, error) {
	if topK <= 0 {
		topK = vector.DefaultTopK
	}

	// KNN via vec0 MATCH, joined back to the documents table for the text.
	rows, err := c.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT
			d.doc_id,
			d.text,
			ve.distance
		FROM %s ve
		INNER JOIN documents d ON d.rowid = ve.rowid
		WHERE ve.embedding MATCH ?
			AND ve.k = ?
		ORDER BY ve.distance
	`, c.table), serializeFloat32(embedding), topK)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	results := []vector.Match{}
	for rows.Next() {
		var (
			docID, text string
			distance    float64
		)
		if err := rows.Scan(&docID, &text, &distance); err != nil {
			return nil, fmt.Errorf("scanning query result: %w", err)
		}

		results = append(results, vector.Match{
			Document: vector.Document{
				ID:   docID,
				Text: text,
			},
			Score: float32(1 - distance),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating query results: %w", err)
	}

	c.logger.Debug("queried sqlite-vec",
		"collection", c.name,
		"results", len(results),
	)

	return results, nil
}

// Count returns the number of documents in the collection.
func (c *collection) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE collection_id = ?`, c.id,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}
