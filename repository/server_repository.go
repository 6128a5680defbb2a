// file: repository/server_repository.go

package repository

import (
	"database/sql"
	"sn-inventory-api/model"
)

// IServerRepository defines the contract for inventory lookups.
type IServerRepository interface {
	SearchSN(keyword string) ([]string, error)
	GetBySN(sn string) (*model.Server, error)
}

type ServerRepository struct {
	DB *sql.DB
}

func NewServerRepository(db *sql.DB) *ServerRepository {
	return &ServerRepository{DB: db}
}

// SearchSN returns up to 20 serial numbers matching the keyword.
func (r *ServerRepository) SearchSN(keyword string) ([]string, error) {
	query := `SELECT sn FROM server_info WHERE sn ILIKE '%' || $1 || '%' ORDER BY sn LIMIT 20`
	rows, err := r.DB.Query(query, keyword)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sns []string
	for rows.Next() {
		var sn string
		if err := rows.Scan(&sn); err != nil {
			return nil, err
		}
		sns = append(sns, sn)
	}
	return sns, rows.Err()
}

// GetBySN returns the full inventory record or sql.ErrNoRows if absent.
func (r *ServerRepository) GetBySN(sn string) (*model.Server, error) {
	server := &model.Server{}
	query := `SELECT id, sn, model, vendor, datacenter, rack, status, created_at FROM server_info WHERE sn = $1 LIMIT 1`
	err := r.DB.QueryRow(query, sn).Scan(&server.ID, &server.SN, &server.Model, &server.Vendor, &server.Datacenter, &server.Rack, &server.Status, &server.CreatedAt)
	if err != nil {
		return nil, err
	}
	return server, nil
}
