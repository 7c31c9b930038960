package exporter

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"todoblocks/internal/retrieve"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

var (
	_ TaskExporter               = (*Notes)(nil)
	_ retrieve.PreferencesReader = (*Notes)(nil)
)

//go:embed notes_schema.sql
var notesSchema string

const (
	prefDateFormat = "date_format"
	defaultAnchor  = "Todoist"
)

// Block is a stored outline block.
type Block struct {
	ID         int64
	PageID     int64
	ParentID   *int64
	Position   int
	Content    string
	Properties map[string]string
}

// Notes is a local outline store: pages of nested blocks carrying properties.
type Notes struct {
	db   *sql.DB
	page string
}

func OpenNotes(path, page string) (*Notes, error) {
	if path == "" {
		return nil, errors.New("notes db path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening notes db")
	}
	if _, err := db.ExecContext(context.Background(), notesSchema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "error applying notes schema")
	}
	return &Notes{db: db, page: page}, nil
}

func (n *Notes) Close() error {
	return n.db.Close()
}

// DateFormat reads the journal page-date preference.
func (n *Notes) DateFormat(ctx context.Context) (string, error) {
	var value string
	err := n.db.QueryRowContext(ctx, "SELECT value FROM preferences WHERE key = ?", prefDateFormat).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return retrieve.DefaultDateFormat, nil
	}
	if err != nil {
		return "", errors.Wrap(err, "error reading date format")
	}
	return value, nil
}

func (n *Notes) SetDateFormat(ctx context.Context, format string) error {
	_, err := n.db.ExecContext(ctx,
		"INSERT INTO preferences (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		prefDateFormat, format)
	return errors.Wrap(err, "error writing date format")
}

func (n *Notes) EnsurePage(ctx context.Context, name string) (int64, error) {
	if _, err := n.db.ExecContext(ctx, "INSERT OR IGNORE INTO pages (name) VALUES (?)", name); err != nil {
		return 0, errors.Wrap(err, "error creating page")
	}
	var id int64
	if err := n.db.QueryRowContext(ctx, "SELECT id FROM pages WHERE name = ?", name).Scan(&id); err != nil {
		return 0, errors.Wrap(err, "error reading page")
	}
	return id, nil
}

// CreateBlock appends a block after the last sibling under parentID (nil for the page root).
func (n *Notes) CreateBlock(ctx context.Context, pageID int64, parentID *int64, content string, props map[string]string) (int64, error) {
	return createBlock(ctx, n.db, pageID, parentID, content, props)
}

// InsertBatch stores a block tree under parentID, keeping sibling order.
func (n *Notes) InsertBatch(ctx context.Context, pageID int64, parentID *int64, blocks []*retrieve.TaskBlock) error {
	tx, err := n.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "error starting transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	if err := insertTree(ctx, tx, pageID, parentID, blocks); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "error committing blocks")
}

func (n *Notes) UpdateBlock(ctx context.Context, id int64, content string) error {
	_, err := n.db.ExecContext(ctx, "UPDATE blocks SET content = ? WHERE id = ?", content, id)
	return errors.Wrap(err, "error updating block")
}

// RemoveBlock deletes a block with all of its descendants.
func (n *Notes) RemoveBlock(ctx context.Context, id int64) error {
	_, err := n.db.ExecContext(ctx, `
		WITH RECURSIVE tree(id) AS (
			SELECT id FROM blocks WHERE id = ?
			UNION ALL
			SELECT b.id FROM blocks b JOIN tree t ON b.parent_id = t.id
		)
		DELETE FROM blocks WHERE id IN (SELECT id FROM tree)`, id)
	return errors.Wrap(err, "error removing block")
}

func (n *Notes) Properties(ctx context.Context, id int64) (map[string]string, error) {
	var raw string
	if err := n.db.QueryRowContext(ctx, "SELECT properties FROM blocks WHERE id = ?", id).Scan(&raw); err != nil {
		return nil, errors.Wrap(err, "error reading block properties")
	}
	return decodeProperties(raw)
}

func (n *Notes) UpsertProperty(ctx context.Context, id int64, key, value string) error {
	props, err := n.Properties(ctx, id)
	if err != nil {
		return err
	}
	props[key] = value
	raw, err := json.Marshal(props)
	if err != nil {
		return errors.Wrap(err, "error encoding block properties")
	}
	_, err = n.db.ExecContext(ctx, "UPDATE blocks SET properties = ? WHERE id = ?", string(raw), id)
	return errors.Wrap(err, "error writing block properties")
}

// Children lists the direct children of parentID in position order.
func (n *Notes) Children(ctx context.Context, pageID int64, parentID *int64) ([]Block, error) {
	rows, err := n.db.QueryContext(ctx, `
		SELECT id, page_id, parent_id, position, content, properties
		FROM blocks
		WHERE page_id = ? AND parent_id IS ?
		ORDER BY position, id`, pageID, nullableID(parentID))
	if err != nil {
		return nil, errors.Wrap(err, "error listing blocks")
	}
	defer rows.Close()

	var out []Block
	for rows.Next() {
		var (
			b      Block
			parent sql.NullInt64
			raw    string
		)
		if err := rows.Scan(&b.ID, &b.PageID, &parent, &b.Position, &b.Content, &raw); err != nil {
			return nil, errors.Wrap(err, "error scanning block")
		}
		if parent.Valid {
			b.ParentID = &parent.Int64
		}
		if b.Properties, err = decodeProperties(raw); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, errors.Wrap(rows.Err(), "error listing blocks")
}

// Set publishes out on the configured page. A query output owns the root block
// tagged with its query text and replaces that block's children on every run.
// Other outputs are appended, under a title block when one is given. Outputs
// without blocks leave the page untouched.
func (n *Notes) Set(ctx context.Context, out Output) error {
	if out.Empty() {
		return nil
	}
	pageID, err := n.EnsurePage(ctx, n.page)
	if err != nil {
		return err
	}

	if out.Query == "" {
		var parentID *int64
		if out.Title != "" {
			id, err := n.CreateBlock(ctx, pageID, nil, out.Title, nil)
			if err != nil {
				return err
			}
			parentID = &id
		}
		return n.InsertBatch(ctx, pageID, parentID, out.Blocks)
	}

	anchorID, err := n.ensureAnchor(ctx, pageID, out)
	if err != nil {
		return err
	}
	children, err := n.Children(ctx, pageID, &anchorID)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := n.RemoveBlock(ctx, child.ID); err != nil {
			return err
		}
	}
	log.Debug().Int64("anchor", anchorID).Int("removed", len(children)).Int("blocks", len(out.Blocks)).Msg("replacing query blocks")
	return n.InsertBatch(ctx, pageID, &anchorID, out.Blocks)
}

func (n *Notes) ensureAnchor(ctx context.Context, pageID int64, out Output) (int64, error) {
	roots, err := n.Children(ctx, pageID, nil)
	if err != nil {
		return 0, err
	}
	for _, root := range roots {
		if root.Properties[retrieve.PropQuery] != out.Query {
			continue
		}
		if out.Title != "" && out.Title != root.Content {
			if err := n.UpdateBlock(ctx, root.ID, out.Title); err != nil {
				return 0, err
			}
		}
		return root.ID, nil
	}

	content := out.Title
	if content == "" {
		content = defaultAnchor
	}
	return n.CreateBlock(ctx, pageID, nil, content, map[string]string{retrieve.PropQuery: out.Query})
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func createBlock(ctx context.Context, db execer, pageID int64, parentID *int64, content string, props map[string]string) (int64, error) {
	if props == nil {
		props = map[string]string{}
	}
	raw, err := json.Marshal(props)
	if err != nil {
		return 0, errors.Wrap(err, "error encoding block properties")
	}

	var position int
	err = db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position) + 1, 0) FROM blocks WHERE page_id = ? AND parent_id IS ?",
		pageID, nullableID(parentID)).Scan(&position)
	if err != nil {
		return 0, errors.Wrap(err, "error reading block position")
	}

	res, err := db.ExecContext(ctx,
		"INSERT INTO blocks (page_id, parent_id, position, content, properties) VALUES (?, ?, ?, ?, ?)",
		pageID, nullableID(parentID), position, content, string(raw))
	if err != nil {
		return 0, errors.Wrap(err, "error creating block")
	}
	id, err := res.LastInsertId()
	return id, errors.Wrap(err, "error reading block id")
}

func insertTree(ctx context.Context, tx *sql.Tx, pageID int64, parentID *int64, blocks []*retrieve.TaskBlock) error {
	for _, block := range blocks {
		id, err := createBlock(ctx, tx, pageID, parentID, block.Content, block.Properties)
		if err != nil {
			return err
		}
		if err := insertTree(ctx, tx, pageID, &id, block.Children); err != nil {
			return err
		}
	}
	return nil
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func decodeProperties(raw string) (map[string]string, error) {
	props := map[string]string{}
	if raw == "" {
		return props, nil
	}
	if err := json.Unmarshal([]byte(raw), &props); err != nil {
		return nil, errors.Wrap(err, "error decoding block properties")
	}
	return props, nil
}
