// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tomtom215/aesthetica/internal/database/query"
	"github.com/tomtom215/aesthetica/internal/models"
)

// Procedures, suppliers and products: the tenant's catalog.

const procedureColumns = `id, tenant_id, name, description, category, duration_minutes, price, active, created_at, updated_at`

func scanProcedure(row pgx.Row) (models.Procedure, error) {
	var p models.Procedure
	var duration int32
	err := row.Scan(&p.ID, &p.TenantID, &p.Name, &p.Description, &p.Category, &duration,
		&p.Price, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	p.DurationMinutes = int(duration)
	return p, err
}

func durationOrDefault(minutes int) int {
	if minutes <= 0 {
		return models.DefaultProcedureDuration
	}
	return minutes
}

// ListProcedures returns active procedures ordered by name.
func (db *DB) ListProcedures(ctx context.Context, tenantID int64, search, category string, page models.PageRequest) (models.Page[models.Procedure], error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	wb := query.ForTenant("tenant_id", tenantID).
		AddEquals("active", true).
		AddSearch(search, "name", "description").
		AddOptionalEquals("category", &category)
	return listing[models.Procedure]{
		op:      "list_procedures",
		columns: procedureColumns,
		from:    "procedures",
		orderBy: "name, id",
		scan:    scanProcedure,
	}.run(ctx, db.pool, wb, page)
}

// GetProcedure returns one procedure of the tenant.
func (db *DB) GetProcedure(ctx context.Context, tenantID, id int64) (_ models.Procedure, err error) {
	defer observe("get_procedure", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	p, err := scanProcedure(db.pool.QueryRow(ctx,
		`SELECT `+procedureColumns+` FROM procedures WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		return models.Procedure{}, translate("get procedure", err)
	}
	return p, nil
}

// CreateProcedure inserts a procedure; a zero duration becomes 60 minutes.
func (db *DB) CreateProcedure(ctx context.Context, tenantID int64, in models.ProcedureInput) (_ models.Procedure, err error) {
	defer observe("create_procedure", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	p, err := scanProcedure(db.pool.QueryRow(ctx, `
		INSERT INTO procedures (tenant_id, name, description, category, duration_minutes, price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+procedureColumns,
		tenantID, in.Name, in.Description, in.Category, durationOrDefault(in.DurationMinutes), in.Price))
	if err != nil {
		return models.Procedure{}, translate("create procedure", err)
	}
	return p, nil
}

// UpdateProcedure replaces the editable fields of a procedure.
func (db *DB) UpdateProcedure(ctx context.Context, tenantID, id int64, in models.ProcedureInput) (_ models.Procedure, err error) {
	defer observe("update_procedure", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	p, err := scanProcedure(db.pool.QueryRow(ctx, `
		UPDATE procedures
		SET name = $3, description = $4, category = $5, duration_minutes = $6, price = $7, updated_at = now()
		WHERE tenant_id = $1 AND id = $2
		RETURNING `+procedureColumns,
		tenantID, id, in.Name, in.Description, in.Category, durationOrDefault(in.DurationMinutes), in.Price))
	if err != nil {
		return models.Procedure{}, translate("update procedure", err)
	}
	return p, nil
}

// DeactivateProcedure soft-deletes a procedure.
func (db *DB) DeactivateProcedure(ctx context.Context, tenantID, id int64) (err error) {
	defer observe("deactivate_procedure", time.Now(), &err)
	return db.deactivate(ctx, "procedures", tenantID, id)
}

const supplierColumns = `id, tenant_id, name, legal_name, cnpj, email, phone, address, notes, active, created_at, updated_at`

func scanSupplier(row pgx.Row) (models.Supplier, error) {
	var s models.Supplier
	err := row.Scan(&s.ID, &s.TenantID, &s.Name, &s.LegalName, &s.CNPJ, &s.Email, &s.Phone,
		&s.Address, &s.Notes, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// ListSuppliers returns active suppliers; search matches name or CNPJ.
func (db *DB) ListSuppliers(ctx context.Context, tenantID int64, search string, page models.PageRequest) (models.Page[models.Supplier], error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	wb := query.ForTenant("tenant_id", tenantID).
		AddEquals("active", true).
		AddSearch(search, "name", "legal_name", "cnpj")
	return listing[models.Supplier]{
		op:      "list_suppliers",
		columns: supplierColumns,
		from:    "suppliers",
		orderBy: "name, id",
		scan:    scanSupplier,
	}.run(ctx, db.pool, wb, page)
}

// GetSupplier returns one supplier of the tenant.
func (db *DB) GetSupplier(ctx context.Context, tenantID, id int64) (_ models.Supplier, err error) {
	defer observe("get_supplier", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	s, err := scanSupplier(db.pool.QueryRow(ctx,
		`SELECT `+supplierColumns+` FROM suppliers WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		return models.Supplier{}, translate("get supplier", err)
	}
	return s, nil
}

// CreateSupplier inserts a supplier.
func (db *DB) CreateSupplier(ctx context.Context, tenantID int64, in models.SupplierInput) (_ models.Supplier, err error) {
	defer observe("create_supplier", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	s, err := scanSupplier(db.pool.QueryRow(ctx, `
		INSERT INTO suppliers (tenant_id, name, legal_name, cnpj, email, phone, address, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+supplierColumns,
		tenantID, in.Name, in.LegalName, in.CNPJ, in.Email, in.Phone, in.Address, in.Notes))
	if err != nil {
		return models.Supplier{}, translate("create supplier", err)
	}
	return s, nil
}

// UpdateSupplier replaces the editable fields of a supplier.
func (db *DB) UpdateSupplier(ctx context.Context, tenantID, id int64, in models.SupplierInput) (_ models.Supplier, err error) {
	defer observe("update_supplier", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	s, err := scanSupplier(db.pool.QueryRow(ctx, `
		UPDATE suppliers
		SET name = $3, legal_name = $4, cnpj = $5, email = $6, phone = $7, address = $8,
		    notes = $9, updated_at = now()
		WHERE tenant_id = $1 AND id = $2
		RETURNING `+supplierColumns,
		tenantID, id, in.Name, in.LegalName, in.CNPJ, in.Email, in.Phone, in.Address, in.Notes))
	if err != nil {
		return models.Supplier{}, translate("update supplier", err)
	}
	return s, nil
}

// DeactivateSupplier soft-deletes a supplier.
func (db *DB) DeactivateSupplier(ctx context.Context, tenantID, id int64) (err error) {
	defer observe("deactivate_supplier", time.Now(), &err)
	return db.deactivate(ctx, "suppliers", tenantID, id)
}

const productColumns = `p.id, p.tenant_id, p.supplier_id, s.name, p.name, p.description, p.category,
	p.barcode, p.unit, p.stock, p.min_stock, p.cost_price, p.sale_price, p.active, p.created_at, p.updated_at`

const productFrom = `products p LEFT JOIN suppliers s ON s.tenant_id = p.tenant_id AND s.id = p.supplier_id`

func scanProduct(row pgx.Row) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.TenantID, &p.SupplierID, &p.SupplierName, &p.Name, &p.Description,
		&p.Category, &p.Barcode, &p.Unit, &p.Stock, &p.MinStock, &p.CostPrice, &p.SalePrice,
		&p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// ListProducts returns active products with their supplier name.
func (db *DB) ListProducts(ctx context.Context, tenantID int64, search, category string, page models.PageRequest) (models.Page[models.Product], error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	wb := query.ForTenant("p.tenant_id", tenantID).
		AddEquals("p.active", true).
		AddSearch(search, "p.name", "p.barcode").
		AddOptionalEquals("p.category", &category)
	return listing[models.Product]{
		op:      "list_products",
		columns: productColumns,
		from:    productFrom,
		orderBy: "p.name, p.id",
		scan:    scanProduct,
	}.run(ctx, db.pool, wb, page)
}

// GetProduct returns one product of the tenant.
func (db *DB) GetProduct(ctx context.Context, tenantID, id int64) (_ models.Product, err error) {
	defer observe("get_product", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.getProduct(ctx, db.pool, tenantID, id)
}

func (db *DB) getProduct(ctx context.Context, q querier, tenantID, id int64) (models.Product, error) {
	p, err := scanProduct(q.QueryRow(ctx,
		`SELECT `+productColumns+` FROM `+productFrom+` WHERE p.tenant_id = $1 AND p.id = $2`, tenantID, id))
	if err != nil {
		return models.Product{}, translate("get product", err)
	}
	return p, nil
}

// CreateProduct inserts a product. A supplier of another tenant is
// ErrInvalidReference.
func (db *DB) CreateProduct(ctx context.Context, tenantID int64, in models.ProductInput) (_ models.Product, err error) {
	defer observe("create_product", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var id int64
	err = db.pool.QueryRow(ctx, `
		INSERT INTO products (tenant_id, supplier_id, name, description, category, barcode, unit,
		                      stock, min_stock, cost_price, sale_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		tenantID, in.SupplierID, in.Name, in.Description, in.Category, in.Barcode, in.Unit,
		in.Stock, in.MinStock, in.CostPrice, in.SalePrice).Scan(&id)
	if err != nil {
		return models.Product{}, translate("create product", err)
	}
	return db.getProduct(ctx, db.pool, tenantID, id)
}

// UpdateProduct replaces the editable fields of a product.
func (db *DB) UpdateProduct(ctx context.Context, tenantID, id int64, in models.ProductInput) (_ models.Product, err error) {
	defer observe("update_product", time.Now(), &err)
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tag, err := db.pool.Exec(ctx, `
		UPDATE products
		SET supplier_id = $3, name = $4, description = $5, category = $6, barcode = $7, unit = $8,
		    stock = $9, min_stock = $10, cost_price = $11, sale_price = $12, updated_at = now()
		WHERE tenant_id = $1 AND id = $2`,
		tenantID, id, in.SupplierID, in.Name, in.Description, in.Category, in.Barcode, in.Unit,
		in.Stock, in.MinStock, in.CostPrice, in.SalePrice)
	if err != nil {
		return models.Product{}, translate("update product", err)
	}
	if err := notFoundUnless("update product", tag); err != nil {
		return models.Product{}, err
	}
	return db.getProduct(ctx, db.pool, tenantID, id)
}

// DeactivateProduct soft-deletes a product.
func (db *DB) DeactivateProduct(ctx context.Context, tenantID, id int64) (err error) {
	defer observe("deactivate_product", time.Now(), &err)
	return db.deactivate(ctx, "products", tenantID, id)
}
