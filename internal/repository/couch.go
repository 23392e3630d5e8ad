package repository

import (
	"context"
	"fmt"
	"net/http"

	_ "github.com/go-kivik/kivik/v4/couchdb"

	"github.com/go-kivik/kivik/v4"
	"go.uber.org/zap"

	"smartnotes-server/pkg/logger"
)

const (
	docTypeNote       = "note"
	docTypeUser       = "user"
	docTypeEmailClaim = "email_claim"

	indexDesignDoc = "smartnotes"
	indexByOwner   = "notes-by-owner"
)

// Connect opens a CouchDB client and makes sure dbName and its Mango indexes exist.
func Connect(ctx context.Context, url, dbName string) (*kivik.Client, error) {
	client, err := kivik.New("couch", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to CouchDB: %w", err)
	}

	if err := Bootstrap(ctx, client, dbName); err != nil {
		return nil, err
	}

	return client, nil
}

func Bootstrap(ctx context.Context, client *kivik.Client, dbName string) error {
	exists, err := client.DBExists(ctx, dbName)
	if err != nil {
		return fmt.Errorf("failed to check database existence: %w", err)
	}

	if !exists {
		if err := client.CreateDB(ctx, dbName); err != nil && !isStatus(err, http.StatusPreconditionFailed) {
			return fmt.Errorf("failed to create database: %w", err)
		}
		logger.Log(ctx).Info(ctx, "created database", zap.String("db", dbName))
	}

	index := map[string]interface{}{
		"fields": []string{"type", "userId", "createdAt"},
	}
	if err := client.DB(dbName).CreateIndex(ctx, indexDesignDoc, indexByOwner, index); err != nil {
		return fmt.Errorf("failed to create note index: %w", err)
	}

	return nil
}

func noteDocID(id string) string {
	return "note:" + id
}

func userDocID(id string) string {
	return "user:" + id
}

func emailClaimDocID(email string) string {
	return "email:" + email
}

func isStatus(err error, status int) bool {
	return err != nil && kivik.HTTPStatus(err) == status
}

// CouchHealth reports whether the CouchDB server answers.
type CouchHealth struct {
	client *kivik.Client
}

func NewCouchHealth(client *kivik.Client) *CouchHealth {
	return &CouchHealth{client: client}
}

func (h *CouchHealth) Ping(ctx context.Context) error {
	up, err := h.client.Ping(ctx)
	if err != nil {
		return fmt.Errorf("ping couchdb: %w", err)
	}
	if !up {
		return fmt.Errorf("couchdb is not responding")
	}
	return nil
}
