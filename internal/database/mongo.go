package database

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"loandash/internal/logger"
	"loandash/internal/models"
)

const mongoBatchSize = 1000

type MongoDB struct {
	Client     *mongo.Client
	Database   *mongo.Database
	Collection *mongo.Collection
}

func NewMongoDB(ctx context.Context, uri, dbName, collection string) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Log.Infof("Connected to MongoDB at %s", uri)

	db := client.Database(dbName)
	return &MongoDB{
		Client:     client,
		Database:   db,
		Collection: db.Collection(collection),
	}, nil
}

func (m *MongoDB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.Client.Disconnect(ctx)
}

// mongoFilter translates filter into a query document. Absent constraints
// produce no key at all.
func mongoFilter(filter models.Filter) bson.M {
	doc := bson.M{}
	if filter.Status != nil {
		doc["status"] = string(*filter.Status)
	}
	if filter.MinAmount != nil || filter.MaxAmount != nil {
		amount := bson.M{}
		if filter.MinAmount != nil {
			amount["$gte"] = *filter.MinAmount
		}
		if filter.MaxAmount != nil {
			amount["$lte"] = *filter.MaxAmount
		}
		doc["amount"] = amount
	}
	if filter.ApplicantName != "" {
		doc["applicantName"] = bson.M{
			"$regex":   regexp.QuoteMeta(filter.ApplicantName),
			"$options": "i",
		}
	}
	return doc
}

func (m *MongoDB) Query(ctx context.Context, filter models.Filter, cursor models.Cursor) (models.Page, error) {
	cursor = cursor.Normalize()
	doc := mongoFilter(filter)

	total, err := m.Collection.CountDocuments(ctx, doc)
	if err != nil {
		return models.Page{}, fmt.Errorf("failed to count loans: %w", err)
	}

	page := models.Page{Loans: []models.Loan{}, Total: int(total)}
	offset := int64(cursor.Offset())
	if offset < 0 || offset >= total {
		return page, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "id", Value: 1}}).
		SetSkip(offset).
		SetLimit(int64(cursor.PageSize)).
		SetProjection(bson.M{"_id": 0})

	cur, err := m.Collection.Find(ctx, doc, opts)
	if err != nil {
		return models.Page{}, fmt.Errorf("failed to find loans: %w", err)
	}
	defer cur.Close(ctx)

	if err := cur.All(ctx, &page.Loans); err != nil {
		return models.Page{}, fmt.Errorf("failed to decode loans: %w", err)
	}
	return page, nil
}

// InsertLoans writes loans in batches and makes sure the id index exists.
func (m *MongoDB) InsertLoans(ctx context.Context, loans []models.Loan) (int, error) {
	if err := m.ensureIndexes(ctx); err != nil {
		return 0, err
	}

	documents := make([]interface{}, 0, mongoBatchSize)
	inserted := 0
	for _, l := range loans {
		documents = append(documents, l)
		if len(documents) >= mongoBatchSize {
			if err := m.insertBatch(ctx, documents); err != nil {
				return inserted, err
			}
			inserted += len(documents)
			documents = documents[:0]
		}
	}
	if len(documents) > 0 {
		if err := m.insertBatch(ctx, documents); err != nil {
			return inserted, err
		}
		inserted += len(documents)
	}

	logger.Log.Infof("Inserted %d loans into collection '%s'", inserted, m.Collection.Name())
	return inserted, nil
}

func (m *MongoDB) ensureIndexes(ctx context.Context) error {
	_, err := m.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "amount", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (m *MongoDB) insertBatch(ctx context.Context, documents []interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := m.Collection.InsertMany(ctx, documents)
	if err != nil {
		return fmt.Errorf("failed to insert batch: %w", err)
	}

	logger.Log.Debugf("Inserted batch of %d documents", len(documents))
	return nil
}

func (m *MongoDB) Drop(ctx context.Context) error {
	if err := m.Collection.Drop(ctx); err != nil {
		return fmt.Errorf("failed to drop collection %s: %w", m.Collection.Name(), err)
	}
	return nil
}
