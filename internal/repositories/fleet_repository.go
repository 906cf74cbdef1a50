package repositories

import (
	"context"
	"database/sql"
	"fmt"

	intconfig "wakacjecypr/internal/config"
	intdb "wakacjecypr/internal/db"
	"wakacjecypr/internal/domain/models"
	"wakacjecypr/internal/pricing"
	"wakacjecypr/internal/utils"

	"github.com/sirupsen/logrus"
)

const fleetTable = "car_offers"

// FleetRepository loads the vehicles and tier prices of an offer from the
// car_offers table. Without the table it serves the static fleet.
type FleetRepository struct {
	DB *sql.DB
}

func (r FleetRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r FleetRepository) LoadFleet(ctx context.Context, offer models.Offer) ([]models.Vehicle, error) {
	if !offer.Valid() {
		return nil, fmt.Errorf("unknown offer %q", offer)
	}
	db := r.db()
	if db == nil || !intdb.HasTable(db, fleetTable) {
		return pricing.StaticFleet(offer), nil
	}

	numSel := func(col string) string {
		if intdb.HasColumn(db, fleetTable, col) {
			return col
		}
		return "NULL"
	}
	where := "WHERE offer=?"
	if intdb.HasColumn(db, fleetTable, "active") {
		where += " AND active=1"
	}

	query := fmt.Sprintf(`
		SELECT
			id, COALESCE(model, ''),
			COALESCE(capacity, 0), COALESCE(max_passengers, 0),
			%s, %s, %s, %s, %s
		FROM %s
		%s
		ORDER BY id
	`,
		numSel("price_3days"),       // 5
		numSel("price_per_day"),     // 6
		numSel("price_4_6days"),     // 7
		numSel("price_7_10days"),    // 8
		numSel("price_10plus_days"), // 9
		fleetTable,
		where,
	)

	rows, err := db.QueryContext(ctx, query, string(offer))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fleet []models.Vehicle
	for rows.Next() {
		var (
			row                            pricing.FleetRow
			p3, perDay, p46, p710, p10plus sql.NullFloat64
		)
		if err := rows.Scan(&row.ID, &row.Model, &row.Capacity, &row.MaxPassengers, &p3, &perDay, &p46, &p710, &p10plus); err != nil {
			return nil, err
		}
		row.Price3Days = nullFloat(p3)
		row.PricePerDay = nullFloat(perDay)
		row.Price4To6Days = nullFloat(p46)
		row.Price7To10Days = nullFloat(p710)
		row.Price10PlusDays = nullFloat(p10plus)

		v, err := pricing.VehicleFromRow(row)
		if err != nil {
			utils.Log().WithFields(logrus.Fields{"offer": offer, "vehicle": row.ID}).WithError(err).Warn("skipping fleet row")
			continue
		}
		fleet = append(fleet, v)
	}
	return fleet, rows.Err()
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
