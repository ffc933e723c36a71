// Seed populates the database with a working data set for local
// development: one administrator, three members, four categories with
// grants, and a folder/document structure with initial versions.
package main

import (
	"flag"
	"log"

	"gorm.io/gorm"

	"github.com/docvault/docvault/internal/auth"
	"github.com/docvault/docvault/internal/config"
	"github.com/docvault/docvault/internal/database"
	"github.com/docvault/docvault/internal/models"
)

func main() {
	wipe := flag.Bool("wipe", true, "delete existing rows before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if *wipe {
		log.Println("Clearing existing data...")
		if err := clear(db); err != nil {
			log.Fatalf("Failed to clear existing data: %v", err)
		}
	}

	if err := seed(db); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Database seeding completed")
	log.Println("  admin: admin@example.com (password: admin123)")
	log.Println("  members: john@example.com, jane@example.com, bob@example.com (password: user123)")
}

// clear deletes children before parents so foreign keys never block.
func clear(db *gorm.DB) error {
	for _, model := range []interface{}{
		&models.DocumentVersion{},
		&models.Document{},
		&models.Folder{},
		&models.AccessGrant{},
		&models.Category{},
		&models.Member{},
		&models.Administrator{},
	} {
		if err := db.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func seed(db *gorm.DB) error {
	adminHash, err := auth.HashPassword("admin123")
	if err != nil {
		return err
	}
	memberHash, err := auth.HashPassword("user123")
	if err != nil {
		return err
	}

	admin := models.Administrator{
		Name:         "System Administrator",
		Email:        "admin@example.com",
		PasswordHash: adminHash,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	members := []models.Member{
		{Name: "John Doe", Email: "john@example.com", PasswordHash: memberHash},
		{Name: "Jane Smith", Email: "jane@example.com", PasswordHash: memberHash},
		{Name: "Bob Johnson", Email: "bob@example.com", PasswordHash: memberHash},
	}
	for i := range members {
		if err := db.Create(&members[i]).Error; err != nil {
			return err
		}
	}

	categories := []models.Category{
		{Name: "Human Resources", Description: "HR policies, procedures, and employee documentation", CreatedByID: admin.ID},
		{Name: "Finance", Description: "Financial reports, budgets, and accounting documents", CreatedByID: admin.ID},
		{Name: "Marketing", Description: "Marketing materials, campaigns, and brand guidelines", CreatedByID: admin.ID},
		{Name: "IT & Technology", Description: "Technical documentation, system guides, and IT policies", CreatedByID: admin.ID},
	}
	for i := range categories {
		if err := db.Create(&categories[i]).Error; err != nil {
			return err
		}
	}

	grants := []models.AccessGrant{
		{CategoryID: categories[0].ID, MemberID: members[0].ID, Level: models.AccessFull},
		{CategoryID: categories[2].ID, MemberID: members[0].ID, Level: models.AccessFull},
		{CategoryID: categories[0].ID, MemberID: members[1].ID, Level: models.AccessReadOnly},
		{CategoryID: categories[1].ID, MemberID: members[1].ID, Level: models.AccessFull},
		{CategoryID: categories[3].ID, MemberID: members[2].ID, Level: models.AccessFull},
	}
	for i := range grants {
		if err := db.Create(&grants[i]).Error; err != nil {
			return err
		}
	}

	owner := models.OwnerRef{Kind: models.RoleAdmin, ID: admin.ID}

	folders := []models.Folder{
		{Name: "Company Policies", Description: "Official company policies and procedures", CategoryID: categories[0].ID, Owner: owner},
		{Name: "Employee Handbooks", Description: "Employee handbooks and onboarding materials", CategoryID: categories[0].ID, Owner: owner},
		{Name: "Monthly Reports", Description: "Monthly financial reports and statements", CategoryID: categories[1].ID, Owner: owner},
		{Name: "Budget Planning", Description: "Annual and quarterly budget documents", CategoryID: categories[1].ID, Owner: owner},
		{Name: "Brand Guidelines", Description: "Logo usage, color schemes, and brand standards", CategoryID: categories[2].ID, Owner: owner},
		{Name: "Marketing Campaigns", Description: "Campaign materials and performance reports", CategoryID: categories[2].ID, Owner: owner},
		{Name: "IT Policies", Description: "Information technology policies and procedures", CategoryID: categories[3].ID, Owner: owner},
		{Name: "User Guides", Description: "Software and system user documentation", CategoryID: categories[3].ID, Owner: owner},
	}
	for i := range folders {
		if err := db.Create(&folders[i]).Error; err != nil {
			return err
		}
	}

	const pdf = "application/pdf"
	const xlsx = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	docs := []models.Document{
		{Title: "Employee Code of Conduct", Description: "Official code of conduct for all employees", FolderID: folders[0].ID, Owner: owner, CurrentURL: "https://placeholder.example/code-of-conduct.pdf", CurrentFileType: pdf, CurrentFileSize: 2547892},
		{Title: "Remote Work Policy", Description: "Guidelines for remote work arrangements", FolderID: folders[0].ID, Owner: owner, CurrentURL: "https://placeholder.example/remote-work-policy.pdf", CurrentFileType: pdf, CurrentFileSize: 1894736},
		{Title: "New Employee Handbook", Description: "Comprehensive guide for new hires", FolderID: folders[1].ID, Owner: owner, CurrentURL: "https://placeholder.example/employee-handbook.pdf", CurrentFileType: pdf, CurrentFileSize: 5231847},
		{Title: "Q1 Financial Report", Description: "First quarter financial performance report", FolderID: folders[2].ID, Owner: owner, CurrentURL: "https://placeholder.example/q1-report.pdf", CurrentFileType: pdf, CurrentFileSize: 3547291},
		{Title: "2024 Marketing Budget", Description: "Annual marketing budget and allocation", FolderID: folders[3].ID, Owner: owner, CurrentURL: "https://placeholder.example/marketing-budget.xlsx", CurrentFileType: xlsx, CurrentFileSize: 892746},
		{Title: "Brand Style Guide", Description: "Complete brand identity and usage guidelines", FolderID: folders[4].ID, Owner: owner, CurrentURL: "https://placeholder.example/style-guide.pdf", CurrentFileType: pdf, CurrentFileSize: 7834629},
	}
	for i := range docs {
		if err := db.Create(&docs[i]).Error; err != nil {
			return err
		}
		version := models.DocumentVersion{
			DocumentID:    docs[i].ID,
			VersionNumber: 1,
			URL:           docs[i].CurrentURL,
			FileType:      docs[i].CurrentFileType,
			FileSize:      docs[i].CurrentFileSize,
			ChangeLog:     "Initial version",
			Uploader:      owner,
		}
		if err := db.Create(&version).Error; err != nil {
			return err
		}
	}

	return nil
}
