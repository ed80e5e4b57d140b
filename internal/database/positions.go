package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/trogers1052/portfolio-rollup/internal/models"
)

const positionColumns = `
	id, account_id, account_name, institution, asset_type, identifier, name,
	quantity, current_price_per_unit, current_value, total_cost_basis, cost_per_unit,
	dividend_rate, dividend_yield, purchase_date, created_at, updated_at
`

const insertPositionQuery = `
	INSERT INTO positions (
		account_id, account_name, institution, asset_type, identifier, name,
		quantity, current_price_per_unit, current_value, total_cost_basis, cost_per_unit,
		dividend_rate, dividend_yield, purchase_date, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
	)
	RETURNING id
`

// queryRower is satisfied by both *sql.DB and *sql.Tx
type queryRower interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

func insertPosition(q queryRower, p *models.Position, accountID string, now time.Time) (int, error) {
	var id int
	err := q.QueryRow(insertPositionQuery,
		accountID, p.AccountName, p.Institution, string(p.AssetType), p.Identifier, p.Name,
		p.Quantity, p.CurrentPricePerUnit, p.CurrentValue, p.TotalCostBasis, p.CostPerUnit,
		p.DividendRate, p.DividendYield, p.PurchaseDate, now, now,
	).Scan(&id)
	return id, err
}

// CreatePosition inserts a single position
func (db *DB) CreatePosition(p *models.Position) error {
	now := time.Now()
	id, err := insertPosition(db.conn, p, p.AccountID, now)
	if err != nil {
		return fmt.Errorf("failed to create position: %w", err)
	}
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// GetPositionByID retrieves a position by ID
func (db *DB) GetPositionByID(id int) (*models.Position, error) {
	query := `SELECT ` + positionColumns + ` FROM positions WHERE id = $1`

	p, err := scanPosition(db.conn.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("position not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get position: %w", err)
	}
	return p, nil
}

// GetAllPositions retrieves every stored position
func (db *DB) GetAllPositions() ([]models.Position, error) {
	query := `SELECT ` + positionColumns + ` FROM positions ORDER BY account_id, asset_type, identifier, id`
	return db.scanPositions(db.conn.Query(query))
}

// GetPositionsByAccount retrieves the positions held in one account
func (db *DB) GetPositionsByAccount(accountID string) ([]models.Position, error) {
	query := `SELECT ` + positionColumns + ` FROM positions WHERE account_id = $1 ORDER BY asset_type, identifier, id`
	return db.scanPositions(db.conn.Query(query, accountID))
}

// DeletePosition removes a position by ID
func (db *DB) DeletePosition(id int) error {
	result, err := db.conn.Exec(`DELETE FROM positions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("position not found")
	}
	return nil
}

// DeletePositionsByAccount removes every position of an account and reports how many were deleted
func (db *DB) DeletePositionsByAccount(accountID string) (int64, error) {
	result, err := db.conn.Exec(`DELETE FROM positions WHERE account_id = $1`, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete account positions: %w", err)
	}
	return result.RowsAffected()
}

// ReplaceAllPositions atomically swaps the whole position book for positions.
// IDs and timestamps are written back onto the given positions once the
// transaction commits.
func (db *DB) ReplaceAllPositions(positions []*models.Position) error {
	return db.replacePositions(`DELETE FROM positions`, nil, "", positions)
}

// ReplaceAccountPositions atomically swaps one account's positions.
// Positions are stored under accountID whatever their own AccountID says.
func (db *DB) ReplaceAccountPositions(accountID string, positions []*models.Position) error {
	return db.replacePositions(`DELETE FROM positions WHERE account_id = $1`, []interface{}{accountID}, accountID, positions)
}

// replacePositions runs deleteQuery and inserts positions in one
// transaction. A non-empty accountID overrides each position's own.
// Nothing is written back onto positions unless the commit succeeds.
func (db *DB) replacePositions(deleteQuery string, args []interface{}, accountID string, positions []*models.Position) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(deleteQuery, args...); err != nil {
		return fmt.Errorf("failed to delete existing positions: %w", err)
	}

	now := time.Now()
	ids := make([]int, len(positions))
	for i, p := range positions {
		account := p.AccountID
		if accountID != "" {
			account = accountID
		}
		id, err := insertPosition(tx, p, account, now)
		if err != nil {
			return fmt.Errorf("failed to insert position %s: %w", p.GroupKey(), err)
		}
		ids[i] = id
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	for i, p := range positions {
		if accountID != "" {
			p.AccountID = accountID
		}
		p.ID = ids[i]
		p.CreatedAt = now
		p.UpdatedAt = now
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPosition(row rowScanner) (*models.Position, error) {
	var p models.Position
	var assetType string
	var institution, name sql.NullString
	var purchaseDate sql.NullTime

	err := row.Scan(
		&p.ID, &p.AccountID, &p.AccountName, &institution, &assetType, &p.Identifier, &name,
		&p.Quantity, &p.CurrentPricePerUnit, &p.CurrentValue, &p.TotalCostBasis, &p.CostPerUnit,
		&p.DividendRate, &p.DividendYield, &purchaseDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.AssetType = models.ParseAssetType(assetType)
	if institution.Valid {
		p.Institution = institution.String
	}
	if name.Valid {
		p.Name = name.String
	}
	if purchaseDate.Valid {
		p.PurchaseDate = &purchaseDate.Time
	}
	return &p, nil
}

func (db *DB) scanPositions(rows *sql.Rows, err error) ([]models.Position, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	var positions []models.Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions: %w", err)
	}
	return positions, nil
}
