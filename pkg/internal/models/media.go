package models

import "gorm.io/datatypes"

// MediaTombstone records a remote image whose deletion failed, the
// cleanup task keeps retrying it.
type MediaTombstone struct {
	BaseModel

	RemoteID  string            `json:"remote_id" gorm:"index"`
	Attempts  int               `json:"attempts"`
	LastError string            `json:"last_error"`
	Context   datatypes.JSONMap `json:"context"`
}
