// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tomtom215/aesthetica/internal/authz"
	"github.com/tomtom215/aesthetica/internal/logging"
	"github.com/tomtom215/aesthetica/internal/models"
)

const tenantColumns = `id, name, slug, email, phone, cnpj, address, plan, status, created_at, updated_at`

const userColumns = `id, tenant_id, name, email, password_hash, role, active, last_login_at, created_at, updated_at`

func scanTenant(row pgx.Row) (models.Tenant, error) {
	var t models.Tenant
	err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.Email, &t.Phone, &t.CNPJ, &t.Address,
		&t.Plan, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.TenantID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.Active, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Signup creates a tenant, its owner and the default payment methods in one
// transaction. A taken slug gets a "-<unix seconds>" suffix; a taken email is
// ErrDuplicate.
func (db *DB) Signup(ctx context.Context, in models.NewTenant) (_ models.SignupResult, err error) {
	defer observe("signup", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	email := strings.ToLower(strings.TrimSpace(in.Email))
	ownerEmail := strings.ToLower(strings.TrimSpace(in.OwnerEmail))
	if email == "" {
		email = ownerEmail
	}

	var result models.SignupResult
	err = db.inTx(ctx, func(tx pgx.Tx) error {
		slug, err := db.uniqueSlug(ctx, tx, in.Name)
		if err != nil {
			return err
		}

		result.Tenant, err = scanTenant(tx.QueryRow(ctx, `
			INSERT INTO tenants (name, slug, email, phone, cnpj, plan, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+tenantColumns,
			strings.TrimSpace(in.Name), slug, email, in.Phone, in.CNPJ,
			models.TenantPlanFree, models.TenantStatusActive))
		if err != nil {
			return translate("create tenant", err)
		}

		result.User, err = scanUser(tx.QueryRow(ctx, `
			INSERT INTO users (tenant_id, name, email, password_hash, role)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+userColumns,
			result.Tenant.ID, strings.TrimSpace(in.OwnerName), ownerEmail, in.PasswordHash,
			string(authz.RoleOwner)))
		if err != nil {
			return translate("create owner", err)
		}

		batch := &pgx.Batch{}
		for _, pm := range models.DefaultPaymentMethods {
			batch.Queue(`INSERT INTO payment_methods (tenant_id, name, kind) VALUES ($1, $2, $3)`,
				result.Tenant.ID, pm.Name, pm.Kind)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return translate("create payment methods", err)
		}
		return nil
	})
	if err != nil {
		return models.SignupResult{}, err
	}

	signups.Inc()
	logging.Info().
		Int64("tenant_id", result.Tenant.ID).
		Str("slug", result.Tenant.Slug).
		Msg("Tenant created")
	return result, nil
}

func (db *DB) uniqueSlug(ctx context.Context, q querier, name string) (string, error) {
	slug := Slugify(name)
	var taken bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM tenants WHERE slug = $1)`, slug).Scan(&taken); err != nil {
		return "", translate("check slug", err)
	}
	if taken {
		slug = fmt.Sprintf("%s-%d", slug, db.now().Unix())
	}
	return slug, nil
}

// FindLoginByEmail returns the user with the given email joined with its
// tenant. Unknown emails are ErrNotFound.
func (db *DB) FindLoginByEmail(ctx context.Context, email string) (_ models.LoginRecord, err error) {
	defer observe("find_login", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var rec models.LoginRecord
	u := &rec.User
	err = db.pool.QueryRow(ctx, `
		SELECT u.id, u.tenant_id, u.name, u.email, u.password_hash, u.role, u.active,
		       u.last_login_at, u.created_at, u.updated_at, t.name, t.slug, t.status
		FROM users u
		JOIN tenants t ON t.id = u.tenant_id
		WHERE u.email = $1`, strings.ToLower(strings.TrimSpace(email))).Scan(
		&u.ID, &u.TenantID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Active,
		&u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt, &rec.TenantName, &rec.TenantSlug, &rec.TenantStatus)
	if err != nil {
		return models.LoginRecord{}, translate("find login", err)
	}
	return rec, nil
}

// UpdateLastLogin stamps the user's last successful login.
func (db *DB) UpdateLastLogin(ctx context.Context, userID int64) (err error) {
	defer observe("update_last_login", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tag, err := db.pool.Exec(ctx,
		`UPDATE users SET last_login_at = now(), updated_at = now() WHERE id = $1`, userID)
	if err != nil {
		return translate("update last login", err)
	}
	return notFoundUnless("update last login", tag)
}

// GetTenant returns one tenant.
func (db *DB) GetTenant(ctx context.Context, tenantID int64) (_ models.Tenant, err error) {
	defer observe("get_tenant", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	t, err := scanTenant(db.pool.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, tenantID))
	if err != nil {
		return models.Tenant{}, translate("get tenant", err)
	}
	return t, nil
}

// GetUser returns a user of the tenant.
func (db *DB) GetUser(ctx context.Context, tenantID, userID int64) (_ models.User, err error) {
	defer observe("get_user", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	u, err := scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE tenant_id = $1 AND id = $2`, tenantID, userID))
	if err != nil {
		return models.User{}, translate("get user", err)
	}
	return u, nil
}

// ListUsers returns every user of the tenant ordered by name.
func (db *DB) ListUsers(ctx context.Context, tenantID int64) (_ []models.User, err error) {
	defer observe("list_users", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE tenant_id = $1 ORDER BY name`, tenantID)
	if err != nil {
		return nil, translate("list users", err)
	}
	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.User, error) {
		return scanUser(row)
	})
	if err != nil {
		return nil, translate("list users", err)
	}
	return users, nil
}

// CreateUser adds a user to the tenant.
func (db *DB) CreateUser(ctx context.Context, tenantID int64, name, email, passwordHash string, role authz.Role) (_ models.User, err error) {
	defer observe("create_user", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	u, err := scanUser(db.pool.QueryRow(ctx, `
		INSERT INTO users (tenant_id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		tenantID, strings.TrimSpace(name), strings.ToLower(strings.TrimSpace(email)), passwordHash, string(role)))
	if err != nil {
		return models.User{}, translate("create user", err)
	}
	return u, nil
}

// UpdateUser changes a user's role and/or active flag. Nil fields are kept.
func (db *DB) UpdateUser(ctx context.Context, tenantID, userID int64, role *authz.Role, active *bool) (_ models.User, err error) {
	defer observe("update_user", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var roleArg *string
	if role != nil {
		s := string(*role)
		roleArg = &s
	}
	u, err := scanUser(db.pool.QueryRow(ctx, `
		UPDATE users
		SET role = COALESCE($3, role),
		    active = COALESCE($4, active),
		    updated_at = now()
		WHERE tenant_id = $1 AND id = $2
		RETURNING `+userColumns,
		tenantID, userID, roleArg, active))
	if err != nil {
		return models.User{}, translate("update user", err)
	}
	return u, nil
}
