package service

import (
	"github.com/dukerupert/stitchwork/internal/domain"
)

// Checkout errors
var (
	ErrUnauthenticated = domain.Errorf(domain.EUNAUTHORIZED, "", "authentication required")
)

// Report errors - use domain.ENOTFOUND
var (
	ErrDesignerNotFound = domain.Errorf(domain.ENOTFOUND, "", "designer not found")
	ErrDesignNotFound   = domain.Errorf(domain.ENOTFOUND, "", "design not found")
)
