package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/greenbasket/greenbasket/internal/domain/errors"
	"github.com/greenbasket/greenbasket/internal/domain/model"
	"github.com/greenbasket/greenbasket/internal/domain/repository"
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// pgxPool is the subset of pgxpool.Pool the storage depends on; it allows
// substituting a mock pool in tests.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type cartRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type catalogRepository struct {
	storage *Storage
}

type ratingRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Carts() repository.CartRepository {
	return &cartRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Catalog() repository.CatalogRepository {
	return &catalogRepository{storage: s}
}

func (s *Storage) Ratings() repository.RatingRepository {
	return &ratingRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS catalog_items (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            unit_price BIGINT NOT NULL,
            categories TEXT[] NOT NULL DEFAULT '{}',
            average_rating DOUBLE PRECISION NOT NULL DEFAULT 0,
            rating_count INTEGER NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS carts (
            user_id BIGINT NOT NULL,
            item_id TEXT NOT NULL REFERENCES catalog_items(id),
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            PRIMARY KEY (user_id, item_id)
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            user_id BIGINT NOT NULL,
            amount BIGINT NOT NULL,
            status TEXT NOT NULL,
            payment_confirmed BOOLEAN NOT NULL DEFAULT FALSE,
            processor_order_ref TEXT NOT NULL,
            address_line1 TEXT NOT NULL,
            address_line2 TEXT NOT NULL DEFAULT '',
            address_city TEXT NOT NULL,
            address_postal_code TEXT NOT NULL,
            address_phone TEXT NOT NULL DEFAULT '',
            address_email TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            order_id TEXT NOT NULL REFERENCES orders(id),
            item_id TEXT NOT NULL,
            name TEXT NOT NULL,
            unit_price BIGINT NOT NULL,
            quantity INTEGER NOT NULL,
            PRIMARY KEY (order_id, item_id)
        )`,
		`CREATE TABLE IF NOT EXISTS ratings (
            id BIGSERIAL PRIMARY KEY,
            item_id TEXT NOT NULL REFERENCES catalog_items(id),
            user_id BIGINT NOT NULL,
            order_id TEXT NOT NULL REFERENCES orders(id),
            score INTEGER NOT NULL,
            review TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (item_id, user_id, order_id)
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_item ON ratings(item_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- CartRepository implementation ---

const selectCartQuery = `SELECT item_id, quantity FROM carts WHERE user_id=$1`

func scanCart(rows pgx.Rows) (model.Cart, error) {
	defer rows.Close()

	cart := model.Cart{}
	for rows.Next() {
		var itemID string
		var quantity int
		if err := rows.Scan(&itemID, &quantity); err != nil {
			return nil, err
		}
		cart[itemID] = quantity
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *cartRepository) Get(ctx context.Context, userID int64) (model.Cart, error) {
	rows, err := r.storage.pool.Query(ctx, selectCartQuery, userID)
	if err != nil {
		return nil, err
	}
	return scanCart(rows)
}

func (r *cartRepository) AddItem(ctx context.Context, userID int64, itemID string) (model.Cart, error) {
	var cart model.Cart
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const upsert = `INSERT INTO carts (user_id, item_id, quantity) VALUES ($1, $2, 1)
                        ON CONFLICT (user_id, item_id) DO UPDATE SET quantity = carts.quantity + 1`
		if _, err := tx.Exec(ctx, upsert, userID, itemID); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
				return domainErrors.ErrNotFound
			}
			return err
		}

		rows, err := tx.Query(ctx, selectCartQuery, userID)
		if err != nil {
			return err
		}
		cart, err = scanCart(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *cartRepository) RemoveItem(ctx context.Context, userID int64, itemID string) (model.Cart, error) {
	var cart model.Cart
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		// Concurrent removes serialize on the row lock, so each one decides
		// against the quantity the previous one committed. A missing entry is
		// a silent no-op.
		const lockLine = `SELECT quantity FROM carts WHERE user_id=$1 AND item_id=$2 FOR UPDATE`
		var quantity int
		err := tx.QueryRow(ctx, lockLine, userID, itemID).Scan(&quantity)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
		case err != nil:
			return err
		case quantity <= 1:
			// The last unit deletes the row so quantity never reaches zero.
			const deleteLine = `DELETE FROM carts WHERE user_id=$1 AND item_id=$2`
			if _, err := tx.Exec(ctx, deleteLine, userID, itemID); err != nil {
				return err
			}
		default:
			const decrement = `UPDATE carts SET quantity = quantity - 1 WHERE user_id=$1 AND item_id=$2`
			if _, err := tx.Exec(ctx, decrement, userID, itemID); err != nil {
				return err
			}
		}

		rows, err := tx.Query(ctx, selectCartQuery, userID)
		if err != nil {
			return err
		}
		cart, err = scanCart(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *cartRepository) Clear(ctx context.Context, userID int64) error {
	_, err := r.storage.pool.Exec(ctx, `DELETE FROM carts WHERE user_id=$1`, userID)
	return err
}

// --- OrderRepository implementation ---

const orderColumns = `id, user_id, amount, status, payment_confirmed, processor_order_ref,
                      address_line1, address_line2, address_city, address_postal_code,
                      address_phone, address_email, created_at, updated_at`

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(&o.ID, &o.UserID, &o.Amount, &o.Status, &o.PaymentConfirmed, &o.ProcessorOrderRef,
		&o.Address.Line1, &o.Address.Line2, &o.Address.City, &o.Address.PostalCode,
		&o.Address.Phone, &o.Address.Email, &o.CreatedAt, &o.UpdatedAt)
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	insert := func() error {
		return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
			const insertOrder = `INSERT INTO orders (id, user_id, amount, status, payment_confirmed, processor_order_ref,
                                 address_line1, address_line2, address_city, address_postal_code, address_phone, address_email)
                                 VALUES ($1, $2, $3, $4, FALSE, $5, $6, $7, $8, $9, $10, $11)
                                 RETURNING created_at, updated_at`
			err := tx.QueryRow(ctx, insertOrder,
				order.ID, order.UserID, order.Amount, order.Status, order.ProcessorOrderRef,
				order.Address.Line1, order.Address.Line2, order.Address.City,
				order.Address.PostalCode, order.Address.Phone, order.Address.Email,
			).Scan(&order.CreatedAt, &order.UpdatedAt)
			if err != nil {
				return err
			}

			const insertItem = `INSERT INTO order_items (order_id, item_id, name, unit_price, quantity)
                                VALUES ($1, $2, $3, $4, $5)`
			for _, item := range order.Items {
				if _, err := tx.Exec(ctx, insertItem, order.ID, item.ItemID, item.Name, item.UnitPrice, item.Quantity); err != nil {
					return err
				}
			}
			return nil
		})
	}

	err := insert()
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return domainErrors.ErrInvalidState
	}
	if ctx.Err() != nil {
		return err
	}

	// Transient persistence failures during order creation get one retry.
	r.storage.logger.Warn("order insert failed, retrying once",
		slog.String("order", order.ID), slog.String("error", err.Error()))
	return insert()
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	var order model.Order
	if err := scanOrder(r.storage.pool.QueryRow(ctx, query, id), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	items, err := r.loadItems(ctx, []string{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]
	return &order, nil
}

func (r *orderRepository) ConfirmPayment(ctx context.Context, orderID string) (bool, error) {
	var applied bool
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const lockOrder = `SELECT status, payment_confirmed FROM orders WHERE id=$1 FOR UPDATE`
		var status model.OrderStatus
		var confirmed bool
		if err := tx.QueryRow(ctx, lockOrder, orderID).Scan(&status, &confirmed); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		switch {
		case status == model.OrderStatusPending:
			const confirm = `UPDATE orders SET status=$1, payment_confirmed=TRUE, updated_at=NOW() WHERE id=$2`
			if _, err := tx.Exec(ctx, confirm, model.OrderStatusPaid, orderID); err != nil {
				return err
			}
			applied = true
			return nil
		case confirmed:
			// Duplicate delivery of the same confirmation is a no-op, even
			// after the operator has advanced the order past Paid.
			return nil
		default:
			return domainErrors.ErrInvalidState
		}
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID string, next model.OrderStatus) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const lockOrder = `SELECT status FROM orders WHERE id=$1 FOR UPDATE`
		var current model.OrderStatus
		if err := tx.QueryRow(ctx, lockOrder, orderID).Scan(&current); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}

		if !current.CanTransitionTo(next) {
			return domainErrors.ErrIllegalTransition
		}

		const update = `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2`
		_, err := tx.Exec(ctx, update, next, orderID)
		return err
	})
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	// Delivered orders sort last; everything else newest first.
	query := `SELECT ` + orderColumns + ` FROM orders
              WHERE user_id=$1 AND payment_confirmed AND status <> $2
              ORDER BY (status = $3), created_at DESC`
	return r.queryOrders(ctx, query, userID, model.OrderStatusCancelled, model.OrderStatusDelivered)
}

func (r *orderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return r.queryOrders(ctx, query)
}

func (r *orderRepository) ListDeliveredBetween(ctx context.Context, start, end time.Time) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
              WHERE status=$1 AND payment_confirmed AND created_at >= $2 AND created_at < $3
              ORDER BY created_at`
	return r.queryOrders(ctx, query, model.OrderStatusDelivered, start, end)
}

func (r *orderRepository) SelectPendingOlderThan(ctx context.Context, age time.Duration, limit int) ([]model.Order, error) {
	// SKIP LOCKED keeps concurrent reconciler instances off each other's
	// batches.
	query := `SELECT ` + orderColumns + ` FROM orders
              WHERE status=$1 AND created_at < NOW() - ($2 * INTERVAL '1 second')
              ORDER BY created_at
              LIMIT $3
              FOR UPDATE SKIP LOCKED`
	return r.queryOrders(ctx, query, model.OrderStatusPending, age.Seconds(), limit)
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []model.Order
	var ids []string
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return orders, nil
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderIDs []string) (map[string][]model.OrderItem, error) {
	const query = `SELECT order_id, item_id, name, unit_price, quantity
                   FROM order_items WHERE order_id = ANY($1) ORDER BY item_id`
	rows, err := r.storage.pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[string][]model.OrderItem, len(orderIDs))
	for rows.Next() {
		var orderID string
		var item model.OrderItem
		if err := rows.Scan(&orderID, &item.ItemID, &item.Name, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, err
		}
		items[orderID] = append(items[orderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// --- CatalogRepository implementation ---

func (r *catalogRepository) GetByIDs(ctx context.Context, ids []string) (map[string]model.CatalogItem, error) {
	const query = `SELECT id, name, unit_price, categories, average_rating, rating_count, created_at
                   FROM catalog_items WHERE id = ANY($1)`
	rows, err := r.storage.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[string]model.CatalogItem, len(ids))
	for rows.Next() {
		var item model.CatalogItem
		if err := rows.Scan(&item.ID, &item.Name, &item.UnitPrice, &item.Categories,
			&item.AverageRating, &item.RatingCount, &item.CreatedAt); err != nil {
			return nil, err
		}
		items[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *catalogRepository) CategoriesForItems(ctx context.Context, ids []string) (map[string][]string, error) {
	const query = `SELECT id, categories FROM catalog_items WHERE id = ANY($1)`
	rows, err := r.storage.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make(map[string][]string, len(ids))
	for rows.Next() {
		var id string
		var cats []string
		if err := rows.Scan(&id, &cats); err != nil {
			return nil, err
		}
		categories[id] = cats
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

// --- RatingRepository implementation ---

const ratingColumns = `id, item_id, user_id, order_id, score, review, created_at, updated_at`

func (r *ratingRepository) Upsert(ctx context.Context, rating *model.Rating) (float64, error) {
	var average float64
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		// The unique key on (item_id, user_id, order_id) makes the
		// lookup-then-write race-free: concurrent upserts collapse into one row.
		const upsert = `INSERT INTO ratings (item_id, user_id, order_id, score, review)
                        VALUES ($1, $2, $3, $4, $5)
                        ON CONFLICT (item_id, user_id, order_id)
                        DO UPDATE SET score = EXCLUDED.score, review = EXCLUDED.review, updated_at = NOW()
                        RETURNING id, created_at, updated_at`
		err := tx.QueryRow(ctx, upsert, rating.ItemID, rating.UserID, rating.OrderID, rating.Score, rating.Review).
			Scan(&rating.ID, &rating.CreatedAt, &rating.UpdatedAt)
		if err != nil {
			return err
		}

		const recompute = `SELECT COALESCE(ROUND(AVG(score)::numeric, 1), 0)::float8, COUNT(*)
                           FROM ratings WHERE item_id=$1`
		var count int
		if err := tx.QueryRow(ctx, recompute, rating.ItemID).Scan(&average, &count); err != nil {
			return err
		}

		const writeBack = `UPDATE catalog_items SET average_rating=$1, rating_count=$2 WHERE id=$3`
		_, err = tx.Exec(ctx, writeBack, average, count, rating.ItemID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return average, nil
}

func (r *ratingRepository) Find(ctx context.Context, itemID string, userID int64, orderID string) (*model.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE item_id=$1 AND user_id=$2 AND order_id=$3`
	var rating model.Rating
	err := r.storage.pool.QueryRow(ctx, query, itemID, userID, orderID).
		Scan(&rating.ID, &rating.ItemID, &rating.UserID, &rating.OrderID,
			&rating.Score, &rating.Review, &rating.CreatedAt, &rating.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) ListByItem(ctx context.Context, itemID string) ([]model.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE item_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, itemID)
	if err != nil {
		return nil, err
	}
	return scanRatings(rows)
}

func (r *ratingRepository) ListByItems(ctx context.Context, itemIDs []string) (map[string][]model.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE item_id = ANY($1) ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, itemIDs)
	if err != nil {
		return nil, err
	}

	ratings, err := scanRatings(rows)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]model.Rating, len(itemIDs))
	for _, rating := range ratings {
		grouped[rating.ItemID] = append(grouped[rating.ItemID], rating)
	}
	return grouped, nil
}

func scanRatings(rows pgx.Rows) ([]model.Rating, error) {
	defer rows.Close()

	var result []model.Rating
	for rows.Next() {
		var rating model.Rating
		if err := rows.Scan(&rating.ID, &rating.ItemID, &rating.UserID, &rating.OrderID,
			&rating.Score, &rating.Review, &rating.CreatedAt, &rating.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
