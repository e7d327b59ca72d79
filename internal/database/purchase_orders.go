// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vendorhub/vendorhub/internal/metrics"
	"github.com/vendorhub/vendorhub/internal/models"
)

// CreatePurchaseOrder inserts an order after verifying the vendor exists.
func (db *DB) CreatePurchaseOrder(ctx context.Context, po *models.PurchaseOrder) (int64, error) {
	exists, err := db.VendorExists(ctx, po.VendorID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrVendorNotFound
	}

	start := time.Now()

	var delivery interface{}
	if po.DeliveryDate != nil {
		delivery = *po.DeliveryDate
	}

	var id int64
	err = db.conn.QueryRowContext(ctx, `
		INSERT INTO purchase_orders
			(vendor_id, order_date, delivery_date, total_amount, status)
		VALUES (?, ?, ?, CAST(? AS DECIMAL(18,2)), ?)
		RETURNING purchase_order_id`,
		po.VendorID, po.OrderDate, delivery, po.TotalAmount, po.Status,
	).Scan(&id)
	metrics.RecordDBQuery("insert", "purchase_orders", start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to insert purchase order: %w", err)
	}

	return id, nil
}

// ListPurchaseOrders returns all orders joined with vendor names.
func (db *DB) ListPurchaseOrders(ctx context.Context) ([]models.PurchaseOrder, error) {
	start := time.Now()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT po.purchase_order_id, po.vendor_id, v.name,
		       CAST(po.order_date AS VARCHAR),
		       CAST(po.delivery_date AS VARCHAR),
		       CAST(po.total_amount AS VARCHAR),
		       po.status
		FROM purchase_orders po
		JOIN vendors v ON v.vendor_id = po.vendor_id
		ORDER BY po.purchase_order_id`)
	metrics.RecordDBQuery("select", "purchase_orders", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase orders: %w", err)
	}
	defer closeQuietly(rows)

	var result []models.PurchaseOrder
	for rows.Next() {
		var po models.PurchaseOrder
		var delivery sql.NullString
		if err := rows.Scan(
			&po.OrderID, &po.VendorID, &po.VendorName,
			&po.OrderDate, &delivery, &po.TotalAmount, &po.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan purchase order: %w", err)
		}
		if delivery.Valid {
			po.DeliveryDate = &delivery.String
		}
		result = append(result, po)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("purchase order iteration failed: %w", err)
	}

	return result, nil
}
