//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package user

import "context"

type Feed interface {
	Update(ctx context.Context, path string, values map[string]any) error
}
