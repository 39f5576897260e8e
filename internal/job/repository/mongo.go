package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jobboard/jobs-api/internal/job"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// jobDoc is the stored shape of a Job. Keeping it private lets the domain
// type carry a plain string id.
type jobDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Type        string             `bson:"type"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Salary      string             `bson:"salary"`
	Location    string             `bson:"location"`
	Company     companyDoc         `bson:"company"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

type companyDoc struct {
	Name         string `bson:"name"`
	Description  string `bson:"description,omitempty"`
	ContactEmail string `bson:"contactEmail"`
	ContactPhone string `bson:"contactPhone,omitempty"`
}

func toDoc(j *job.Job) jobDoc {
	return jobDoc{
		Type:        j.Type,
		Title:       j.Title,
		Description: j.Description,
		Salary:      j.Salary,
		Location:    j.Location,
		Company: companyDoc{
			Name:         j.Company.Name,
			Description:  j.Company.Description,
			ContactEmail: j.Company.ContactEmail,
			ContactPhone: j.Company.ContactPhone,
		},
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

func (d *jobDoc) toJob() *job.Job {
	return &job.Job{
		ID:          d.ID.Hex(),
		Type:        d.Type,
		Title:       d.Title,
		Description: d.Description,
		Salary:      d.Salary,
		Location:    d.Location,
		Company: job.Company{
			Name:         d.Company.Name,
			Description:  d.Company.Description,
			ContactEmail: d.Company.ContactEmail,
			ContactPhone: d.Company.ContactPhone,
		},
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// MongoRepo implements a MongoDB-backed repository for jobs. The store
// assigns ObjectIDs; callers only ever see their hex form.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

func (m *MongoRepo) Create(ctx context.Context, j *job.Job) (*job.Job, error) {
	doc := toDoc(j)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = job.Now()
	doc.UpdatedAt = doc.CreatedAt
	if _, err := m.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	return doc.toJob(), nil
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*job.Job, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var d jobDoc
	if err := m.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find job: %w", err)
	}
	return d.toJob(), nil
}

func (m *MongoRepo) List(ctx context.Context) ([]*job.Job, error) {
	cur, err := m.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find jobs: %w", err)
	}
	defer cur.Close(ctx)
	out := []*job.Job{}
	for cur.Next(ctx) {
		var d jobDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode job: %w", err)
		}
		out = append(out, d.toJob())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return out, nil
}

// Update writes every user field of j in one findAndModify. createdAt is
// never part of the update.
func (m *MongoRepo) Update(ctx context.Context, j *job.Job) (*job.Job, error) {
	oid, err := objectID(j.ID)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated jobDoc
	err = m.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, updateDoc(j), opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update job: %w", err)
	}
	return updated.toJob(), nil
}

// updateDoc builds the update for j. updatedAt goes through $max so two
// racing updates can never move the stored value backwards.
func updateDoc(j *job.Job) bson.M {
	doc := toDoc(j)
	return bson.M{
		"$set": bson.M{
			"type":        doc.Type,
			"title":       doc.Title,
			"description": doc.Description,
			"salary":      doc.Salary,
			"location":    doc.Location,
			"company":     doc.Company,
		},
		"$max": bson.M{"updatedAt": job.NextUpdatedAt(j.UpdatedAt)},
	}
}

func (m *MongoRepo) Delete(ctx context.Context, id string) (*job.Job, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var d jobDoc
	if err := m.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete job: %w", err)
	}
	return d.toJob(), nil
}

// Ping checks that the deployment behind the collection answers.
func (m *MongoRepo) Ping(ctx context.Context) error {
	return m.col.Database().Client().Ping(ctx, readpref.Primary())
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid job id %q: %w", id, err)
	}
	return oid, nil
}
