package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskboard/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const tasksCollection = "tasks"

type taskDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Status      string             `bson:"status"`
	AssignedTo  []string           `bson:"assignedTo"`
	FinishedAt  *time.Time         `bson:"finishedAt"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *taskDoc) toDomain() *domain.Task {
	return &domain.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Status:      domain.TaskStatus(d.Status),
		AssignedTo:  domain.AssigneeList(d.AssignedTo),
		FinishedAt:  d.FinishedAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// TaskRepository stores tasks in MongoDB.
type TaskRepository struct {
	coll *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{coll: db.Collection(tasksCollection)}
}

// EnsureIndexes indexes assignedTo for assignee lookups.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "assignedTo", Value: 1}},
		Options: options.Index().SetName("assigned_to"),
	})
	return err
}

func (r *TaskRepository) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	return r.find(ctx, bson.D{})
}

func (r *TaskRepository) ListTasksByAssignee(ctx context.Context, userID string) ([]*domain.Task, error) {
	return r.find(ctx, bson.M{"assignedTo": userID})
}

func (r *TaskRepository) find(ctx context.Context, filter any) ([]*domain.Task, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []taskDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	res := make([]*domain.Task, 0, len(docs))
	for i := range docs {
		res = append(res, docs[i].toDomain())
	}
	return res, nil
}

func (r *TaskRepository) CreateTask(ctx context.Context, t *domain.Task) error {
	oid, err := primitive.ObjectIDFromHex(t.ID)
	if err != nil {
		return fmt.Errorf("task id %q: %w", t.ID, domain.ErrValidation)
	}
	_, err = r.coll.InsertOne(ctx, taskDoc{
		ID:          oid,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		AssignedTo:  []string(t.AssignedTo),
		FinishedAt:  t.FinishedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	})
	return err
}

func (r *TaskRepository) UpdateTask(ctx context.Context, id string, upd domain.TaskUpdate) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("task id %q: %w", id, domain.ErrValidation)
	}

	set := bson.M{"updatedAt": upd.UpdatedAt}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Status != nil {
		set["status"] = string(*upd.Status)
	}
	if upd.AssignedTo != nil {
		set["assignedTo"] = []string(upd.AssignedTo)
	}
	if upd.SetFinishedAt {
		set["finishedAt"] = upd.FinishedAt
	}

	var d taskDoc
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("task %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return d.toDomain(), nil
}

func (r *TaskRepository) DeleteTask(ctx context.Context, id string) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("task id %q: %w", id, domain.ErrValidation)
	}
	var d taskDoc
	err = r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("task %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return d.toDomain(), nil
}
