package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/docvault/docvault/internal/handlers"
	"github.com/docvault/docvault/internal/middleware"
	"github.com/docvault/docvault/internal/models"
	"github.com/docvault/docvault/internal/storage"
	"github.com/docvault/docvault/internal/types"
	"github.com/docvault/docvault/internal/utils"
)

var testSecret = []byte("handler-test-secret")

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Administrator{},
		&models.Member{},
		&models.Category{},
		&models.AccessGrant{},
		&models.Folder{},
		&models.Document{},
		&models.DocumentVersion{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// newTestApp wires the full route table against an in-memory database and
// blob store, mirroring the server wiring.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, *storage.MemoryStore) {
	t.Helper()

	db := setupTestDB(t)
	store := storage.NewMemoryStore()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := err.Error()
			errorType := "unknown"
			if e, ok := err.(*types.CustomError); ok {
				code, message, errorType = e.Code, e.Message, e.Type
			} else if e, ok := err.(*fiber.Error); ok {
				code, message = e.Code, e.Message
			}
			return utils.ErrorResponse(c, message, code, errorType)
		},
	})

	requireAuth := middleware.RequireAuth(db, testSecret)
	requireAdmin := middleware.RequireAdmin()

	authHandler := &handlers.AuthHandler{DB: db, Secret: testSecret, TokenTTL: time.Hour}
	categoryHandler := &handlers.CategoryHandler{DB: db}
	accessHandler := &handlers.AccessHandler{DB: db}
	folderHandler := &handlers.FolderHandler{DB: db}
	documentHandler := &handlers.DocumentHandler{DB: db, Store: store, Log: zap.NewNop(), MaxUploadBytes: 10 * 1024 * 1024}

	api := app.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.Post("/admin/register", authHandler.RegisterAdmin)
	authRoutes.Post("/admin/login", authHandler.LoginAdmin)
	authRoutes.Post("/user/register", authHandler.RegisterMember)
	authRoutes.Post("/user/login", authHandler.LoginMember)
	authRoutes.Get("/me", requireAuth, authHandler.Me)

	categories := api.Group("/categories", requireAuth)
	categories.Post("/", requireAdmin, categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.Get)
	categories.Put("/:id", requireAdmin, categoryHandler.Update)
	categories.Delete("/:id", requireAdmin, categoryHandler.Delete)

	access := api.Group("/access", requireAuth, requireAdmin)
	access.Post("/grant", accessHandler.Grant)
	access.Post("/revoke", accessHandler.Revoke)
	access.Get("/users", accessHandler.ListUsers)
	access.Get("/users/:userId", accessHandler.UserAccess)
	access.Get("/categories/:categoryId", accessHandler.CategoryAccess)

	folders := api.Group("/folders", requireAuth)
	folders.Post("/", folderHandler.Create)
	folders.Get("/category/:categoryId", folderHandler.ListByCategory)
	folders.Get("/:id", folderHandler.Get)
	folders.Put("/:id", folderHandler.Update)
	folders.Delete("/:id", folderHandler.Delete)

	documents := api.Group("/documents", requireAuth)
	documents.Post("/", documentHandler.Create)
	documents.Get("/folder/:folderId", documentHandler.ListByFolder)
	documents.Get("/:id", documentHandler.Get)
	documents.Put("/:id", documentHandler.Update)
	documents.Delete("/:id", documentHandler.Delete)
	documents.Post("/:id/versions", documentHandler.CreateVersion)
	documents.Get("/:id/versions", documentHandler.ListVersions)
	documents.Post("/:id/versions/:versionId/restore", documentHandler.RestoreVersion)

	return app, db, store
}

// jsonRequest builds a JSON request, optionally authenticated.
func jsonRequest(t *testing.T, method, target, token string, body interface{}) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// doJSON executes the request and decodes the JSON response body.
func doJSON(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]interface{}) {
	t.Helper()

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp.StatusCode, result
}

// registerAdmin registers an administrator over HTTP and returns its token.
func registerAdmin(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	status, result := doJSON(t, app, jsonRequest(t, "POST", "/api/auth/admin/register", "", map[string]string{
		"name": "Admin", "email": email, "password": "admin123",
	}))
	if status != fiber.StatusCreated {
		t.Fatalf("Admin register failed with status %d: %v", status, result)
	}
	token, _ := result["token"].(string)
	if token == "" {
		t.Fatal("Admin register returned no token")
	}
	return token
}

// registerMember registers a member over HTTP and returns its token and id.
func registerMember(t *testing.T, app *fiber.App, email string) (token, id string) {
	t.Helper()

	status, result := doJSON(t, app, jsonRequest(t, "POST", "/api/auth/user/register", "", map[string]string{
		"name": "Member", "email": email, "password": "user123",
	}))
	if status != fiber.StatusCreated {
		t.Fatalf("Member register failed with status %d: %v", status, result)
	}
	token, _ = result["token"].(string)
	user, _ := result["user"].(map[string]interface{})
	id, _ = user["id"].(string)
	if token == "" || id == "" {
		t.Fatalf("Member register returned incomplete result: %v", result)
	}
	return token, id
}

// createCategoryHTTP creates a category as the given admin and returns its id.
func createCategoryHTTP(t *testing.T, app *fiber.App, adminToken, name string) string {
	t.Helper()

	status, result := doJSON(t, app, jsonRequest(t, "POST", "/api/categories/", adminToken, map[string]string{
		"name": name, "description": "test category",
	}))
	if status != fiber.StatusCreated {
		t.Fatalf("Category create failed with status %d: %v", status, result)
	}
	category, _ := result["category"].(map[string]interface{})
	id, _ := category["id"].(string)
	if id == "" {
		t.Fatalf("Category create returned no id: %v", result)
	}
	return id
}

// createFolderHTTP creates a folder in the category and returns its id.
func createFolderHTTP(t *testing.T, app *fiber.App, token, categoryID, name string) string {
	t.Helper()

	status, result := doJSON(t, app, jsonRequest(t, "POST", "/api/folders/", token, map[string]string{
		"name": name, "categoryId": categoryID,
	}))
	if status != fiber.StatusCreated {
		t.Fatalf("Folder create failed with status %d: %v", status, result)
	}
	folder, _ := result["folder"].(map[string]interface{})
	id, _ := folder["id"].(string)
	if id == "" {
		t.Fatalf("Folder create returned no id: %v", result)
	}
	return id
}

// multipartUpload builds a multipart request carrying a PDF payload plus
// extra form fields.
func multipartUpload(t *testing.T, target, token, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()

	buf := new(bytes.Buffer)
	writer := multipart.NewWriter(buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", "application/pdf")
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("Failed to create form part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("Failed to write payload: %v", err)
	}

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("Failed to write field %s: %v", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest("POST", target, buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// uploadDocument uploads a PDF and returns the created document's id.
func uploadDocument(t *testing.T, app *fiber.App, token, folderID, title string) string {
	t.Helper()

	req := multipartUpload(t, "/api/documents/", token, "report.pdf", []byte("%PDF-1.4 test"), map[string]string{
		"title":    title,
		"folderId": folderID,
	})
	status, result := doJSON(t, app, req)
	if status != fiber.StatusCreated {
		t.Fatalf("Document upload failed with status %d: %v", status, result)
	}
	doc, _ := result["document"].(map[string]interface{})
	id, _ := doc["id"].(string)
	if id == "" {
		t.Fatalf("Document upload returned no id: %v", result)
	}
	return id
}
