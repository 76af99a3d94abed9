// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

/*
Package database is the PostgreSQL persistence layer, built on a pgx
connection pool.

# Tenant Scoping

Every tenant-owned table carries tenant_id, and every method that touches
such a table takes the tenant id as an explicit argument and puts it in the
WHERE clause (usually through query.ForTenant). A row of another tenant is
indistinguishable from a missing row: both are ErrNotFound.

Child tables reference their parents through (tenant_id, id) composite
foreign keys, so the schema itself rejects a visit or appointment that points
at another tenant's patient. Such writes surface as ErrInvalidReference.

# Transactions

Signup, CreateVisit, CreateAppointment and the settlement methods run inside a
single transaction via inTx; any error rolls the whole operation back.

# Errors

Driver errors are translated into sentinels that callers test with errors.Is:

	ErrNotFound          no row (or a row of another tenant)
	ErrDuplicate         unique violation, SQLSTATE 23505
	ErrInvalidReference  foreign key violation, SQLSTATE 23503
	ErrSettlementClosed  payment against a cancelled receivable or payable

# Credentials

DB implements authz.CredentialStore. LookupUserRole reads the user's tenant,
role and active flag on every call; nothing is cached, so a role change is
seen by the next request.

# Migrations

SQL files under migrations/ are embedded and applied in version order by
Migrate, each in its own transaction, under a PostgreSQL advisory lock.
*/
package database
