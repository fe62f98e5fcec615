// Package mongostore implementa el Record Store sobre una base documental remota
// (colecciones users, clients y reports).
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/visitas-api/internal/domain"
	"github.com/jhoicas/visitas-api/internal/domain/entity"
	"github.com/jhoicas/visitas-api/internal/domain/repository"
	"github.com/jhoicas/visitas-api/pkg/config"
)

const (
	usersCollection   = "users"
	clientsCollection = "clients"
	reportsCollection = "reports"
)

var (
	_ repository.UserRepository   = (*UserRepo)(nil)
	_ repository.ClientRepository = (*ClientRepo)(nil)
	_ repository.ReportRepository = (*ReportRepo)(nil)
)

// Open conecta, asegura los índices y devuelve el backend.
func Open(ctx context.Context, cfg config.MongoConfig) (*repository.Backend, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("conectar mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	db := client.Database(cfg.Database)
	if err := EnsureIndexes(connectCtx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	b := NewBackend(db)
	b.Close = func() error { return client.Disconnect(context.Background()) }
	return b, nil
}

// EnsureIndexes crea el índice único de username y los de búsqueda exacta de clientes.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("índice users.username: %w", err)
	}
	if _, err := db.Collection(clientsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "phone", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("índices clients: %w", err)
	}
	return nil
}

// NewBackend arma los repositorios sobre una base existente.
func NewBackend(db *mongo.Database) *repository.Backend {
	return &repository.Backend{
		Name:    "mongo",
		Users:   &UserRepo{coll: db.Collection(usersCollection)},
		Clients: &ClientRepo{coll: db.Collection(clientsCollection)},
		Reports: &ReportRepo{coll: db.Collection(reportsCollection)},
	}
}

// UserRepo usuarios en la colección users.
type UserRepo struct {
	coll *mongo.Collection
}

func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	var docs []userDoc
	if err := findAll(ctx, r.coll, "users.List", options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}), &docs); err != nil {
		return nil, err
	}
	out := make([]*entity.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.entity())
	}
	return out, nil
}

func (r *UserRepo) GetByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	var d userDoc
	found, err := findOne(ctx, r.coll, "users.GetByIdentifier", bson.M{"username": identifier}, &d)
	if err != nil || !found {
		return nil, err
	}
	return d.entity(), nil
}

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	_, err := r.coll.InsertOne(ctx, userDoc{
		ID: u.ID, Username: u.Identifier, Password: u.Secret, Name: u.Name, Role: u.Role, CreatedAt: u.CreatedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicateIdentifier
	}
	return wrap("users.Create", err)
}

func (r *UserRepo) UpdateSecret(ctx context.Context, identifier, secret string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"username": identifier}, bson.M{"$set": bson.M{"password": secret}})
	if err != nil {
		return wrap("users.UpdateSecret", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ClientRepo clientes en la colección clients.
type ClientRepo struct {
	coll *mongo.Collection
}

func (r *ClientRepo) List(ctx context.Context) ([]*entity.Client, error) {
	var docs []clientDoc
	if err := findAll(ctx, r.coll, "clients.List", options.Find().SetSort(bson.D{{Key: "name", Value: 1}}), &docs); err != nil {
		return nil, err
	}
	out := make([]*entity.Client, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.entity())
	}
	return out, nil
}

func (r *ClientRepo) GetByName(ctx context.Context, name string) (*entity.Client, error) {
	return r.findBy(ctx, "clients.GetByName", bson.M{"name": name})
}

func (r *ClientRepo) GetByPhone(ctx context.Context, phone string) (*entity.Client, error) {
	return r.findBy(ctx, "clients.GetByPhone", bson.M{"phone": phone})
}

func (r *ClientRepo) findBy(ctx context.Context, op string, filter bson.M) (*entity.Client, error) {
	var d clientDoc
	found, err := findOne(ctx, r.coll, op, filter, &d)
	if err != nil || !found {
		return nil, err
	}
	return d.entity(), nil
}

func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	_, err := r.coll.InsertOne(ctx, clientDoc{
		ID: c.ID, Name: c.Name, Contact: c.Contact, Phone: c.Phone, Type: c.Type, CreatedAt: c.CreatedAt,
	})
	return wrap("clients.Create", err)
}

// ReportRepo reportes en la colección reports.
type ReportRepo struct {
	coll *mongo.Collection
}

func (r *ReportRepo) List(ctx context.Context) ([]*entity.Report, error) {
	var docs []reportDoc
	if err := findAll(ctx, r.coll, "reports.List", options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}), &docs); err != nil {
		return nil, err
	}
	out := make([]*entity.Report, 0, len(docs))
	for _, d := range docs {
		rep, err := d.entity()
		if err != nil {
			return nil, fmt.Errorf("reports.List: monto inválido en %s: %w", d.ID, err)
		}
		out = append(out, rep)
	}
	return out, nil
}

func (r *ReportRepo) Create(ctx context.Context, rep *entity.Report) error {
	d, err := toReportDoc(rep)
	if err != nil {
		return fmt.Errorf("%w: monto: %v", domain.ErrInvalidInput, err)
	}
	_, err = r.coll.InsertOne(ctx, d)
	return wrap("reports.Create", err)
}

func findAll(ctx context.Context, coll *mongo.Collection, op string, opts *options.FindOptions, out any) error {
	cur, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return wrap(op, err)
	}
	return wrap(op, cur.All(ctx, out))
}

func findOne(ctx context.Context, coll *mongo.Collection, op string, filter bson.M, out any) (bool, error) {
	err := coll.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, wrap(op, err)
	}
	return true, nil
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return domain.Unavailable(op, err)
}
