package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/renanjardim/back-end-rota-certa/internal/domain"
	"github.com/renanjardim/back-end-rota-certa/pkg/logger"
)

const transactionRollbackError = "error rolling back transaction"

type Postgres struct {
	DB *sql.DB
}

func New(db *sql.DB) *Postgres {
	return &Postgres{DB: db}
}

func (p *Postgres) Close() error {
	return p.DB.Close()
}

func (p *Postgres) CreateUser(user domain.User) (int64, error) {
	roles, err := json.Marshal(user.Roles)
	if err != nil {
		return 0, fmt.Errorf("error encoding roles: %w", err)
	}

	var id int64
	err = p.DB.QueryRow(
		"INSERT INTO users (full_name, email, password, roles, balance_available, balance_escrow, balance_disputed, wallet_status) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id",
		user.FullName, user.Email, user.Password, roles,
		user.Wallet.Available, user.Wallet.Escrow, user.Wallet.Disputed, user.Wallet.Status,
	).Scan(&id)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			logger.Log.Warn("user already exists", logger.String("email", user.Email))
			return 0, domain.ErrUserExists
		}
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	return id, nil
}

func (p *Postgres) UserByEmail(email string) (*domain.User, error) {
	row := p.DB.QueryRow(
		"SELECT id, full_name, email, password, roles, balance_available, balance_escrow, balance_disputed, wallet_status, registered_at FROM users WHERE email = $1",
		email,
	)

	return scanUser(row)
}

func (p *Postgres) UserByID(id int64) (*domain.User, error) {
	row := p.DB.QueryRow(
		"SELECT id, full_name, email, password, roles, balance_available, balance_escrow, balance_disputed, wallet_status, registered_at FROM users WHERE id = $1",
		id,
	)

	return scanUser(row)
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	var roles []byte
	err := row.Scan(
		&user.ID, &user.FullName, &user.Email, &user.Password, &roles,
		&user.Wallet.Available, &user.Wallet.Escrow, &user.Wallet.Disputed, &user.Wallet.Status,
		&user.RegisteredAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	if err := json.Unmarshal(roles, &user.Roles); err != nil {
		return nil, fmt.Errorf("error decoding roles: %w", err)
	}

	return &user, nil
}

func (p *Postgres) UpdateUser(id int64, patch domain.UserPatch) error {
	result, err := p.DB.Exec(
		"UPDATE users SET full_name = COALESCE($1::text, full_name), email = COALESCE($2::text, email), password = COALESCE($3::text, password) WHERE id = $4",
		patch.FullName, patch.Email, patch.Password, id,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			logger.Log.Warn("email already taken", logger.Int64("user_id", id))
			return domain.ErrUserExists
		}
		return fmt.Errorf("error updating user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected for user update: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

func (p *Postgres) CreatePasswordReset(token string, userID int64) error {
	_, err := p.DB.Exec("INSERT INTO password_resets (token, user_id) VALUES ($1, $2)", token, userID)
	if err != nil {
		return fmt.Errorf("error creating password reset: %w", err)
	}

	return nil
}

// CreateDelivery inserts the delivery and moves the amount from the
// requester's available balance into escrow in the same transaction. The
// balance check is part of the UPDATE predicate, so a concurrent request
// cannot overspend the wallet.
func (p *Postgres) CreateDelivery(d domain.Delivery) (int64, error) {
	tx, err := p.DB.BeginTx(context.Background(), nil)
	if err != nil {
		return 0, fmt.Errorf("error starting transaction: %w", err)
	}

	result, err := tx.Exec(
		"UPDATE users SET balance_available = balance_available - $1, balance_escrow = balance_escrow + $1 WHERE id = $2 AND balance_available >= $1 AND wallet_status = $3",
		d.Amount, d.RequesterID, domain.WalletActive,
	)
	if err != nil {
		rollback(tx)
		return 0, fmt.Errorf("error reserving funds: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		rollback(tx)
		return 0, fmt.Errorf("error checking rows affected for funds reservation: %w", err)
	}
	if rowsAffected == 0 {
		rollback(tx)
		logger.Log.Warn("insufficient funds for delivery", logger.Float64("amount", d.Amount), logger.Int64("user_id", d.RequesterID))
		return 0, domain.ErrInsufficientFunds
	}

	var id int64
	err = tx.QueryRow(
		"INSERT INTO deliveries (requester_id, status, amount, origin, destination, description) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id",
		d.RequesterID, domain.DeliveryCreated, d.Amount, d.Origin, d.Destination, d.Description,
	).Scan(&id)
	if err != nil {
		rollback(tx)
		return 0, fmt.Errorf("error creating delivery: %w", err)
	}

	if err = tx.Commit(); err != nil {
		rollback(tx)
		return 0, fmt.Errorf("error committing transaction: %w", err)
	}

	return id, nil
}

func (p *Postgres) Deliveries(userID int64, filter domain.DeliveryFilter) ([]domain.Delivery, error) {
	query := "SELECT id, requester_id, courier_id, status, amount, origin, destination, description, created_at, updated_at FROM deliveries WHERE "
	args := []any{userID}

	if filter.AvailableOnly {
		args = append(args, domain.DeliveryCreated)
		query += "(requester_id <> $1 AND status = $2)"
	} else {
		query += "(requester_id = $1 OR courier_id = $1)"
	}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	query += " ORDER BY created_at DESC"

	rows, err := p.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error fetching deliveries: %w", err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Log.Error("error closing rows", logger.Error(err))
		}
	}(rows)

	var deliveries []domain.Delivery
	for rows.Next() {
		var d domain.Delivery
		var courierID sql.NullInt64
		err := rows.Scan(&d.ID, &d.RequesterID, &courierID, &d.Status, &d.Amount, &d.Origin, &d.Destination, &d.Description, &d.CreatedAt, &d.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning delivery: %w", err)
		}
		if courierID.Valid {
			d.CourierID = &courierID.Int64
		}
		deliveries = append(deliveries, d)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over deliveries: %w", err)
	}

	return deliveries, nil
}

// AcceptDelivery binds the courier with a single conditional UPDATE keyed
// on the current status, so two couriers racing for the same delivery
// cannot both win.
func (p *Postgres) AcceptDelivery(deliveryID, courierID int64) error {
	result, err := p.DB.Exec(
		"UPDATE deliveries SET status = $1, courier_id = $2, updated_at = now() WHERE id = $3 AND status = $4 AND requester_id <> $2",
		domain.DeliveryAccepted, courierID, deliveryID, domain.DeliveryCreated,
	)
	if err != nil {
		return fmt.Errorf("error accepting delivery: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected for delivery accept: %w", err)
	}
	if rowsAffected == 0 {
		return p.classifyAcceptFailure(deliveryID, courierID)
	}

	return nil
}

func (p *Postgres) CompleteDelivery(deliveryID, courierID int64) error {
	return p.settle(deliveryID, courierID, domain.DeliveryCompleted,
		"UPDATE users SET balance_escrow = balance_escrow - $1 WHERE id = $2",
		"UPDATE users SET balance_available = balance_available + $1 WHERE id = $2",
	)
}

func (p *Postgres) FailDelivery(deliveryID, courierID int64) error {
	return p.settle(deliveryID, courierID, domain.DeliveryFailed,
		"UPDATE users SET balance_escrow = balance_escrow - $1, balance_disputed = balance_disputed + $1 WHERE id = $2",
		"",
	)
}

// settle moves an accepted delivery to its terminal status and applies the
// paired wallet updates in one transaction. requesterQuery always runs
// against the requester's wallet; courierQuery is optional.
func (p *Postgres) settle(deliveryID, courierID int64, status, requesterQuery, courierQuery string) error {
	tx, err := p.DB.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	var requesterID int64
	var amount float64
	err = tx.QueryRow(
		"SELECT requester_id, amount FROM deliveries WHERE id = $1 AND status = $2 AND courier_id = $3 FOR UPDATE",
		deliveryID, domain.DeliveryAccepted, courierID,
	).Scan(&requesterID, &amount)
	if err != nil {
		rollback(tx)
		if errors.Is(err, sql.ErrNoRows) {
			return p.classifyTransitionFailure(deliveryID, courierID, domain.DeliveryAccepted, true)
		}
		return fmt.Errorf("error locking delivery: %w", err)
	}

	if _, err = tx.Exec("UPDATE deliveries SET status = $1, updated_at = now() WHERE id = $2", status, deliveryID); err != nil {
		rollback(tx)
		return fmt.Errorf("error updating delivery status: %w", err)
	}

	if _, err = tx.Exec(requesterQuery, amount, requesterID); err != nil {
		rollback(tx)
		return fmt.Errorf("error updating requester wallet: %w", err)
	}

	if courierQuery != "" {
		if _, err = tx.Exec(courierQuery, amount, courierID); err != nil {
			rollback(tx)
			return fmt.Errorf("error updating courier wallet: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		rollback(tx)
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}

// CompleteReturn refunds the disputed amount back to the requester once a
// failed delivery is returned.
func (p *Postgres) CompleteReturn(deliveryID, requesterID int64) error {
	tx, err := p.DB.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	var amount float64
	err = tx.QueryRow(
		"SELECT amount FROM deliveries WHERE id = $1 AND status = $2 AND requester_id = $3 FOR UPDATE",
		deliveryID, domain.DeliveryFailed, requesterID,
	).Scan(&amount)
	if err != nil {
		rollback(tx)
		if errors.Is(err, sql.ErrNoRows) {
			return p.classifyTransitionFailure(deliveryID, requesterID, domain.DeliveryFailed, false)
		}
		return fmt.Errorf("error locking delivery: %w", err)
	}

	if _, err = tx.Exec("UPDATE deliveries SET status = $1, updated_at = now() WHERE id = $2", domain.DeliveryReturnCompleted, deliveryID); err != nil {
		rollback(tx)
		return fmt.Errorf("error updating delivery status: %w", err)
	}

	if _, err = tx.Exec(
		"UPDATE users SET balance_disputed = balance_disputed - $1, balance_available = balance_available + $1 WHERE id = $2",
		amount, requesterID,
	); err != nil {
		rollback(tx)
		return fmt.Errorf("error refunding requester wallet: %w", err)
	}

	if err = tx.Commit(); err != nil {
		rollback(tx)
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}

func (p *Postgres) classifyAcceptFailure(deliveryID, courierID int64) error {
	var status string
	var requesterID int64
	var currentCourier sql.NullInt64
	err := p.DB.QueryRow("SELECT status, requester_id, courier_id FROM deliveries WHERE id = $1", deliveryID).
		Scan(&status, &requesterID, &currentCourier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrDeliveryNotFound
		}
		return fmt.Errorf("error fetching delivery: %w", err)
	}

	if requesterID == courierID {
		logger.Log.Warn("requester tried to accept own delivery", logger.Int64("delivery_id", deliveryID), logger.Int64("user_id", courierID))
		return domain.ErrOwnDelivery
	}

	logger.Log.Warn("delivery not available for accept", logger.Int64("delivery_id", deliveryID), logger.String("status", status))
	return domain.ErrDeliveryConflict
}

func (p *Postgres) classifyTransitionFailure(deliveryID, actorID int64, expectedStatus string, byCourier bool) error {
	var status string
	var requesterID int64
	var courierID sql.NullInt64
	err := p.DB.QueryRow("SELECT status, requester_id, courier_id FROM deliveries WHERE id = $1", deliveryID).
		Scan(&status, &requesterID, &courierID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrDeliveryNotFound
		}
		return fmt.Errorf("error fetching delivery: %w", err)
	}

	if status != expectedStatus {
		logger.Log.Warn("delivery in unexpected status", logger.Int64("delivery_id", deliveryID), logger.String("status", status))
		return domain.ErrDeliveryConflict
	}

	if byCourier && (!courierID.Valid || courierID.Int64 != actorID) {
		return domain.ErrNotParticipant
	}
	if !byCourier && requesterID != actorID {
		return domain.ErrNotParticipant
	}

	return domain.ErrDeliveryConflict
}

func rollback(tx *sql.Tx) {
	err := tx.Rollback()
	if err != nil {
		logger.Log.Error(transactionRollbackError, logger.Error(err))
	}
}
