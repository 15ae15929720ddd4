package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction so a
// single value can travel through repo and storage calls.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}
