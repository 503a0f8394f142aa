package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mfakhry/pantry-orders/internal/domain"
)

// PostgresStore keeps the two collections in items and orders tables. Writes
// replace the whole collection inside one transaction, matching the contract
// the rest of the system is built against. The initial stock list is seeded
// by migration, so reads never have to special-case empty state.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ReadInventory(ctx context.Context) ([]domain.StockItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, stock
		FROM items
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []domain.StockItem{}
	for rows.Next() {
		var item domain.StockItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Stock); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (s *PostgresStore) WriteInventory(ctx context.Context, items []domain.StockItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return err
	}

	for _, item := range items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO items (id, name, stock)
			VALUES ($1, $2, $3)
		`, item.ID, item.Name, item.Stock)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *PostgresStore) ReadOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_name, note, status, items, date, processed_date, processed_by, rating
		FROM orders
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	orders := []domain.Order{}
	for rows.Next() {
		var (
			order       domain.Order
			itemsJSON   []byte
			processedBy sql.NullString
			processed   sql.NullTime
			rating      sql.NullInt64
		)
		if err := rows.Scan(
			&order.ID, &order.EmployeeName, &order.Note, &order.Status,
			&itemsJSON, &order.Date, &processed, &processedBy, &rating,
		); err != nil {
			return nil, err
		}

		if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
			return nil, fmt.Errorf("unmarshal items of order %d: %w", order.ID, err)
		}
		if processed.Valid {
			t := processed.Time
			order.ProcessedDate = &t
		}
		if processedBy.Valid {
			order.ProcessedBy = processedBy.String
		}
		if rating.Valid {
			r := int(rating.Int64)
			order.Rating = &r
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func (s *PostgresStore) WriteOrders(ctx context.Context, orders []domain.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM orders`); err != nil {
		return err
	}

	for _, order := range orders {
		itemsJSON, err := json.Marshal(order.Items)
		if err != nil {
			return fmt.Errorf("marshal items of order %d: %w", order.ID, err)
		}

		var rating sql.NullInt64
		if order.Rating != nil {
			rating = sql.NullInt64{Int64: int64(*order.Rating), Valid: true}
		}
		var processed sql.NullTime
		if order.ProcessedDate != nil {
			processed = sql.NullTime{Time: *order.ProcessedDate, Valid: true}
		}
		var processedBy sql.NullString
		if order.ProcessedBy != "" {
			processedBy = sql.NullString{String: order.ProcessedBy, Valid: true}
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO orders (id, employee_name, note, status, items, date, processed_date, processed_by, rating)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, order.ID, order.EmployeeName, order.Note, order.Status, itemsJSON, order.Date, processed, processedBy, rating)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
