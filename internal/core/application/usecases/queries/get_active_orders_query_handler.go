package queries

import (
	"context"

	"courierflow/internal/core/domain/model/kernel"
	"courierflow/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// terminalStatuses are excluded from the board.
//
//nolint:gochecknoglobals // fixed list
var terminalStatuses = []string{
	order.Completed.String(),
	order.Cancelled.String(),
	order.CancelledByClient.String(),
	order.CancelledByClientWithPenalty.String(),
	order.CancelledByAdmin.String(),
	order.CancelledByAdminWithPenalty.String(),
	order.CancelledByDriver.String(),
}

// GetActiveOrdersQueryHandler reads the board straight from the orders table.
type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle returns the non-terminal orders, oldest first.
func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]GetActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetActiveOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_id,
			restaurant_id,
			courier_id,
			status,
			payment_status,
			total,
			created_at
		FROM orders
		WHERE status NOT IN ?
		ORDER BY created_at
	`, terminalStatuses).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, customerID, restaurantID uuid.UUID
			courierID                    *uuid.UUID
			status, payment              string
			row                          GetActiveOrdersQueryResponse
			total                        decimal.Decimal
		)

		if err = rows.Scan(&id, &customerID, &restaurantID, &courierID, &status, &payment, &total, &row.CreatedAt); err != nil {
			return nil, err
		}

		if row.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if row.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
			return nil, err
		}
		if row.RestaurantID, err = kernel.UUIDFromBytes(restaurantID[:]); err != nil {
			return nil, err
		}
		if courierID != nil {
			cID, idErr := kernel.UUIDFromBytes(courierID[:])
			if idErr != nil {
				return nil, idErr
			}
			row.CourierID = &cID
		}
		if row.Status, err = order.ParseStatus(status); err != nil {
			return nil, err
		}
		if row.PaymentStatus, err = order.ParsePaymentStatus(payment); err != nil {
			return nil, err
		}
		row.Total = total

		orders = append(orders, row)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
