// Package storage persists saved assessments and reference data.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/levenlabs/go-lflag"

	"github.com/juasmart/juasmart/pkg/types"
)

// ErrAssessmentNotFound is returned when a requested assessment does not
// exist for the user.
var ErrAssessmentNotFound = errors.New("assessment not found")

// Database defines the interface for persisting assessments and reference
// data.
type Database interface {
	// Assessments
	SaveAssessment(ctx context.Context, a types.Assessment) error
	GetAssessment(ctx context.Context, userEmail, id string) (types.Assessment, error)
	ListAssessments(ctx context.Context, userEmail string) ([]types.Assessment, error)
	DeleteAssessment(ctx context.Context, userEmail, id string) error

	// Reference data, keyed by canonical file name.
	GetReferenceData(ctx context.Context) (map[string][]byte, error)
	SetReferenceData(ctx context.Context, name string, data []byte) error

	// Lifecycle
	Close() error
}

// Configured sets up the storage provider based on flags.
func Configured() Database {
	provider := lflag.String("storage-provider", "firestore", "Storage provider to use (available: firestore)")

	var p struct{ Database }

	fs := configuredFirestore()

	lflag.Do(func() {
		switch *provider {
		case "firestore":
			p.Database = fs
			if err := fs.Init(context.Background()); err != nil {
				panic(fmt.Sprintf("firestore init failed: %v", err))
			}
		default:
			panic(fmt.Sprintf("unknown storage provider: %s", *provider))
		}
	})

	return &p
}
