package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/levenlabs/go-lflag"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/juasmart/juasmart/pkg/log"
	"github.com/juasmart/juasmart/pkg/types"
)

// FirestoreProvider implements the Database interface using Google Cloud
// Firestore. Assessments live under users/{email}/assessments, reference
// files under reference_data.
type FirestoreProvider struct {
	client    *firestore.Client
	projectID string
	database  string
}

// configuredFirestore sets up the Firestore provider.
// It registers flags for configuration.
func configuredFirestore() *FirestoreProvider {
	projectID := lflag.String("firestore-project-id", "", "Google Cloud Project ID for Firestore")
	database := lflag.String("firestore-database", "", "Google Cloud Firestore Database")
	emulator := lflag.String("firestore-emulator", "", "Use Firestore emulator")

	f := &FirestoreProvider{}

	lflag.Do(func() {
		f.projectID = *projectID
		f.database = *database

		// set this because that's how firestore client expects it
		if *emulator != "" {
			os.Setenv("FIRESTORE_EMULATOR_HOST", *emulator)
		}
	})

	return f
}

// Init initializes the Firestore client.
// This must be called before using the provider methods.
func (f *FirestoreProvider) Init(ctx context.Context) error {
	projectID := f.projectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	database := f.database
	if database == "" {
		database = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, database)
	if err != nil {
		return fmt.Errorf("failed to create firestore client (project=%s, database=%s): %w", projectID, database, err)
	}
	f.client = client
	return nil
}

// Close closes the Firestore client connection.
func (f *FirestoreProvider) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

func (f *FirestoreProvider) assessments(userEmail string) (*firestore.CollectionRef, error) {
	if userEmail == "" {
		return nil, fmt.Errorf("userEmail cannot be empty")
	}
	return f.client.Collection("users").Doc(userEmail).Collection("assessments"), nil
}

// SaveAssessment stores an assessment as a JSON blob keyed by its ID.
func (f *FirestoreProvider) SaveAssessment(ctx context.Context, a types.Assessment) error {
	if a.ID == "" {
		return fmt.Errorf("assessment missing id")
	}
	jsonBytes, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal assessment: %w", err)
	}

	coll, err := f.assessments(a.UserEmail)
	if err != nil {
		return err
	}
	_, err = coll.Doc(a.ID).Set(ctx, map[string]interface{}{
		"json":      string(jsonBytes),
		"version":   types.CurrentAssessmentVersion,
		"createdAt": a.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to save assessment: %w", err)
	}
	return nil
}

// GetAssessment retrieves a single assessment by ID.
func (f *FirestoreProvider) GetAssessment(ctx context.Context, userEmail, id string) (types.Assessment, error) {
	coll, err := f.assessments(userEmail)
	if err != nil {
		return types.Assessment{}, err
	}
	doc, err := coll.Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return types.Assessment{}, ErrAssessmentNotFound
		}
		return types.Assessment{}, fmt.Errorf("failed to fetch assessment doc: %w", err)
	}
	return decodeAssessment(ctx, doc)
}

// ListAssessments returns all of a user's assessments, newest first.
func (f *FirestoreProvider) ListAssessments(ctx context.Context, userEmail string) ([]types.Assessment, error) {
	coll, err := f.assessments(userEmail)
	if err != nil {
		return nil, err
	}
	iter := coll.OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var out []types.Assessment
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating assessments: %w", err)
		}
		a, err := decodeAssessment(ctx, doc)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// DeleteAssessment removes an assessment. Deleting a missing assessment is
// not an error.
func (f *FirestoreProvider) DeleteAssessment(ctx context.Context, userEmail, id string) error {
	coll, err := f.assessments(userEmail)
	if err != nil {
		return err
	}
	if _, err := coll.Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete assessment: %w", err)
	}
	return nil
}

func decodeAssessment(ctx context.Context, doc *firestore.DocumentSnapshot) (types.Assessment, error) {
	val, err := doc.DataAt("json")
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "assessment doc missing json", slog.String("id", doc.Ref.ID))
		return types.Assessment{}, fmt.Errorf("assessment document %s missing 'json' field: %w", doc.Ref.ID, err)
	}
	jsonStr, ok := val.(string)
	if !ok {
		log.Ctx(ctx).WarnContext(ctx, "assessment doc json not string", slog.String("id", doc.Ref.ID))
		return types.Assessment{}, fmt.Errorf("assessment document %s 'json' field is not a string", doc.Ref.ID)
	}

	var a types.Assessment
	if err := json.Unmarshal([]byte(jsonStr), &a); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to unmarshal assessment", slog.String("id", doc.Ref.ID), slog.Any("err", err))
		return types.Assessment{}, fmt.Errorf("failed to unmarshal assessment (id=%s): %w", doc.Ref.ID, err)
	}
	return a, nil
}

// GetReferenceData fetches every reference file stored in the
// reference_data collection, keyed by document ID.
func (f *FirestoreProvider) GetReferenceData(ctx context.Context) (map[string][]byte, error) {
	iter := f.client.Collection("reference_data").Documents(ctx)
	defer iter.Stop()

	files := make(map[string][]byte)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating reference data: %w", err)
		}

		val, err := doc.DataAt("json")
		if err != nil {
			return nil, fmt.Errorf("reference document %s missing 'json' field: %w", doc.Ref.ID, err)
		}
		jsonStr, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("reference document %s 'json' field is not a string", doc.Ref.ID)
		}
		files[doc.Ref.ID] = []byte(jsonStr)
	}
	return files, nil
}

// SetReferenceData stores one reference file under its canonical name.
func (f *FirestoreProvider) SetReferenceData(ctx context.Context, name string, data []byte) error {
	if name == "" {
		return fmt.Errorf("reference file name cannot be empty")
	}
	_, err := f.client.Collection("reference_data").Doc(name).Set(ctx, map[string]interface{}{
		"json": string(data),
	})
	if err != nil {
		return fmt.Errorf("failed to save reference data %s: %w", name, err)
	}
	return nil
}
