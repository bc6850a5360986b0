package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ilungi/gestora-api/internal/core/domain"
)

const tasksCollection = "tasks"

// TaskRepository implements ports.TaskRepository using MongoDB. The
// responsibles set is embedded in the task document, so "create task + link
// responsibles" is a single insert.
type TaskRepository struct {
	coll *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{coll: db.Collection(tasksCollection)}
}

type mongoTask struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Title        string             `bson:"title"`
	Description  string             `bson:"description"`
	Status       string             `bson:"status"`
	CreatedAt    time.Time          `bson:"created_at"`
	EndDate      time.Time          `bson:"end_date,omitempty"`
	DaysToFinish int                `bson:"days_to_finish,omitempty"`
	Responsibles []string           `bson:"responsibles"`
	CreatedBy    string             `bson:"created_by,omitempty"`
}

func toMongoTask(t *domain.Task) mongoTask {
	responsibles := t.Responsibles
	if responsibles == nil {
		responsibles = []string{}
	}
	return mongoTask{
		Title:        t.Title,
		Description:  t.Description,
		Status:       string(t.Status),
		CreatedAt:    t.CreatedAt,
		EndDate:      t.EndDate,
		DaysToFinish: t.DaysToFinish,
		Responsibles: responsibles,
		CreatedBy:    t.CreatedBy,
	}
}

func (mt mongoTask) toDomain() *domain.Task {
	return &domain.Task{
		ID:           mt.ID.Hex(),
		Title:        mt.Title,
		Description:  mt.Description,
		Status:       domain.TaskStatus(mt.Status),
		CreatedAt:    mt.CreatedAt,
		EndDate:      mt.EndDate,
		DaysToFinish: mt.DaysToFinish,
		Responsibles: mt.Responsibles,
		CreatedBy:    mt.CreatedBy,
	}
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, toMongoTask(t))
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	created := *t
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mt mongoTask
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return mt.toDomain(), nil
}

func (r *TaskRepository) FindAll(ctx context.Context) ([]*domain.Task, error) {
	return r.find(ctx, bson.M{})
}

func (r *TaskRepository) FindByResponsible(ctx context.Context, userID string) ([]*domain.Task, error) {
	return r.find(ctx, bson.M{"responsibles": userID})
}

func (r *TaskRepository) CountByResponsible(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"responsibles": userID})
	if err != nil {
		return 0, fmt.Errorf("count tasks by responsible: %w", err)
	}
	return n, nil
}

func (r *TaskRepository) CountByCreator(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"created_by": userID})
	if err != nil {
		return 0, fmt.Errorf("count tasks by creator: %w", err)
	}
	return n, nil
}

func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	oid, err := primitive.ObjectIDFromHex(t.ID)
	if err != nil {
		return domain.ErrTaskNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, toMongoTask(t))
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTaskNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// EnsureIndexes creates the membership and creator indexes used by the
// role-filtered list queries.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "responsibles", Value: 1}}},
		{Keys: bson.D{{Key: "created_by", Value: 1}}},
	})
	return err
}

func (r *TaskRepository) find(ctx context.Context, filter bson.M) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer cur.Close(ctx)

	var tasks []*domain.Task
	for cur.Next(ctx) {
		var mt mongoTask
		if err := cur.Decode(&mt); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		tasks = append(tasks, mt.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}
