// Package mock is used to generate mock files for testing.
package mock

//go:generate mockgen -source ../authcore/authcore_iface.go -destination mock_authcore/mock_authcore_iface.go
