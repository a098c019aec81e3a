// server/internal/database/seeder.go
package database

import (
	"context"
	"log"
	"time"

	"garment-dispatch-api-server/internal/auth"
	"garment-dispatch-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func SeedSuperAdmin(db *mongo.Database) error {
	userCollection := db.Collection("users")
	superAdminEmail := "superadmin@example.com"

	count, err := userCollection.CountDocuments(context.Background(), bson.M{"email": superAdminEmail})
	if err != nil {
		return err
	}

	if count > 0 {
		log.Println("Super admin already exists. Seeding skipped.")
		return nil
	}

	log.Println("Super admin not found. Seeding...")
	hashedPassword, err := auth.HashPassword("superadminpassword")
	if err != nil {
		return err
	}

	superAdmin := models.User{
		Email:       superAdminEmail,
		Name:        "Super Admin",
		Password:    hashedPassword,
		Role:        "superadmin",
		WarehouseID: "system",
		Status:      "active",
	}

	_, err = userCollection.InsertOne(context.Background(), superAdmin)
	if err != nil {
		return err
	}

	log.Println("Super admin seeded successfully.")
	return nil
}

// SeedDemoData loads a small master-data set for local development:
// two warehouses, a few products with sizes, colors, barcodes and
// stock levels. Skipped when warehouses already exist.
func SeedDemoData(db *mongo.Database) error {
	ctx := context.Background()

	count, err := db.Collection("warehouses").CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		log.Println("Master data already exists. Demo seeding skipped.")
		return nil
	}

	log.Println("Seeding demo master data...")
	now := time.Now()

	warehouses := []interface{}{
		models.Warehouse{WarehouseID: "wh-central", Name: "Central Warehouse", Status: "ACTIVE", CreatedAt: now, UpdatedAt: now},
		models.Warehouse{WarehouseID: "wh-north", Name: "North Branch Warehouse", Status: "ACTIVE", CreatedAt: now, UpdatedAt: now},
	}
	if _, err := db.Collection("warehouses").InsertMany(ctx, warehouses); err != nil {
		return err
	}

	products := []interface{}{
		models.Product{ProductID: "prod-tshirt", Name: "Basic T-Shirt", Code: "TSHIRT-001", Active: true, CreatedAt: now, UpdatedAt: now},
		models.Product{ProductID: "prod-hoodie", Name: "Zip Hoodie", Code: "HOODIE-001", Active: true, CreatedAt: now, UpdatedAt: now},
		models.Product{ProductID: "prod-jeans", Name: "Slim Jeans", Code: "JEANS-001", Active: true, CreatedAt: now, UpdatedAt: now},
	}
	if _, err := db.Collection("products").InsertMany(ctx, products); err != nil {
		return err
	}

	sizes := []interface{}{
		models.Size{SizeID: "size-s", Name: "Small", Code: "S"},
		models.Size{SizeID: "size-m", Name: "Medium", Code: "M"},
		models.Size{SizeID: "size-l", Name: "Large", Code: "L"},
	}
	if _, err := db.Collection("sizes").InsertMany(ctx, sizes); err != nil {
		return err
	}

	colors := []interface{}{
		models.Color{ColorID: "color-black", Name: "Black", Code: "BLK"},
		models.Color{ColorID: "color-white", Name: "White", Code: "WHT"},
		models.Color{ColorID: "color-navy", Name: "Navy Blue", Code: "NVY"},
	}
	if _, err := db.Collection("colors").InsertMany(ctx, colors); err != nil {
		return err
	}

	stockLevels := []interface{}{
		models.StockLevel{WarehouseID: "wh-central", ProductID: "prod-tshirt", Available: 120, UpdatedAt: now},
		models.StockLevel{WarehouseID: "wh-central", ProductID: "prod-hoodie", Available: 40, UpdatedAt: now},
		models.StockLevel{WarehouseID: "wh-central", ProductID: "prod-jeans", Available: 75, UpdatedAt: now},
		models.StockLevel{WarehouseID: "wh-north", ProductID: "prod-tshirt", Available: 30, UpdatedAt: now},
	}
	if _, err := db.Collection("stock_levels").InsertMany(ctx, stockLevels); err != nil {
		return err
	}

	barcodes := []interface{}{
		// Full variant encoded in the code.
		models.Barcode{Code: "8930001000017", ProductID: "prod-tshirt", SizeID: "size-m", Color: "Black"},
		models.Barcode{Code: "8930001000024", ProductID: "prod-tshirt", SizeID: "size-l", Color: "White"},
		// Product-only codes; the operator is prompted for the variant.
		models.Barcode{Code: "8930002000016", ProductID: "prod-hoodie"},
		models.Barcode{Code: "8930003000015", ProductID: "prod-jeans"},
	}
	if _, err := db.Collection("barcodes").InsertMany(ctx, barcodes); err != nil {
		return err
	}

	log.Println("Demo master data seeded successfully.")
	return nil
}
