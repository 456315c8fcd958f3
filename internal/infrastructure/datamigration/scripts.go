package datamigration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/catalog"
	"github.com/menswear/backend/internal/domain/identity"
	"github.com/menswear/backend/internal/domain/partner"
	"github.com/menswear/backend/internal/domain/shared"
	"github.com/menswear/backend/internal/infrastructure/export"
	"github.com/menswear/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

type idEmail struct {
	ID    uuid.UUID
	Email string
}

// NormalizeEmails lowercases and trims emails. Rows whose normalized email
// is already taken are reported and left alone.
type NormalizeEmails struct{}

func (NormalizeEmails) Name() string { return "normalize-emails" }
func (NormalizeEmails) Description() string {
	return "lowercase and trim emails on customers, leads and users"
}

func (NormalizeEmails) Run(ctx context.Context, tx *gorm.DB, _ Options, result *Result) error {
	tables := []struct {
		model  any
		name   string
		unique bool
	}{
		{&models.CustomerModel{}, "customers", true},
		{&models.LeadModel{}, "leads", false},
		{&models.UserModel{}, "users", true},
	}

	for _, table := range tables {
		var rows []idEmail
		if err := tx.WithContext(ctx).Model(table.model).Select("id", "email").Find(&rows).Error; err != nil {
			return fmt.Errorf("load %s: %w", table.name, err)
		}

		for _, row := range rows {
			result.Scanned++
			normalized := strings.ToLower(strings.TrimSpace(row.Email))
			if normalized == row.Email {
				continue
			}

			if table.unique {
				var taken int64
				if err := tx.Model(table.model).
					Where("email = ? AND id <> ?", normalized, row.ID).
					Count(&taken).Error; err != nil {
					return err
				}
				if taken > 0 {
					result.conflict("%s %s: %q collides with an existing %q", table.name, row.ID, row.Email, normalized)
					continue
				}
			}

			if err := tx.Model(table.model).Where("id = ?", row.ID).UpdateColumn("email", normalized).Error; err != nil {
				return fmt.Errorf("update %s %s: %w", table.name, row.ID, err)
			}
			result.Changed++
		}
	}
	return nil
}

// BackfillSlugs derives slugs for products that have none, suffixing -2, -3
// and so on until the slug is free
type BackfillSlugs struct{}

func (BackfillSlugs) Name() string        { return "backfill-slugs" }
func (BackfillSlugs) Description() string { return "generate missing product slugs from names" }

func (BackfillSlugs) Run(ctx context.Context, tx *gorm.DB, _ Options, result *Result) error {
	var products []models.ProductModel
	if err := tx.WithContext(ctx).Select("id", "name", "slug").
		Where("slug = '' OR slug IS NULL").
		Order("created_at").
		Find(&products).Error; err != nil {
		return err
	}

	for _, p := range products {
		result.Scanned++
		base := catalog.Slugify(p.Name)
		if base == "" {
			result.conflict("product %s: name %q has no usable characters", p.ID, p.Name)
			continue
		}

		slug, err := freeSlug(tx, base)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.ProductModel{}).Where("id = ?", p.ID).UpdateColumn("slug", slug).Error; err != nil {
			return err
		}
		result.Changed++
	}
	return nil
}

func freeSlug(tx *gorm.DB, base string) (string, error) {
	candidate := base
	for n := 2; ; n++ {
		var count int64
		if err := tx.Model(&models.ProductModel{}).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

// UppercaseSKUs normalizes variant SKUs to their canonical uppercase form
type UppercaseSKUs struct{}

func (UppercaseSKUs) Name() string        { return "uppercase-skus" }
func (UppercaseSKUs) Description() string { return "trim and uppercase product variant SKUs" }

func (UppercaseSKUs) Run(ctx context.Context, tx *gorm.DB, _ Options, result *Result) error {
	var variants []models.ProductVariantModel
	if err := tx.WithContext(ctx).Select("id", "sku").Find(&variants).Error; err != nil {
		return err
	}

	for _, v := range variants {
		result.Scanned++
		normalized, err := catalog.NormalizeSKU(v.SKU)
		if err != nil {
			result.conflict("variant %s: %q is not a valid SKU", v.ID, v.SKU)
			continue
		}
		if normalized == v.SKU {
			continue
		}

		var taken int64
		if err := tx.Model(&models.ProductVariantModel{}).
			Where("sku = ? AND id <> ?", normalized, v.ID).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			result.conflict("variant %s: %q collides with existing SKU %q", v.ID, v.SKU, normalized)
			continue
		}

		if err := tx.Model(&models.ProductVariantModel{}).Where("id = ?", v.ID).UpdateColumn("sku", normalized).Error; err != nil {
			return err
		}
		result.Changed++
	}
	return nil
}

// LinkLeads attaches unlinked leads to the customer with the same email and
// marks them converted
type LinkLeads struct{}

func (LinkLeads) Name() string        { return "link-leads" }
func (LinkLeads) Description() string { return "link leads to existing customers by email" }

func (LinkLeads) Run(ctx context.Context, tx *gorm.DB, _ Options, result *Result) error {
	var leads []models.LeadModel
	if err := tx.WithContext(ctx).Select("id", "email").
		Where("customer_id IS NULL").
		Find(&leads).Error; err != nil {
		return err
	}

	for _, lead := range leads {
		result.Scanned++
		var customer models.CustomerModel
		err := tx.Select("id").Where("email = ?", strings.ToLower(strings.TrimSpace(lead.Email))).First(&customer).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&models.LeadModel{}).Where("id = ?", lead.ID).UpdateColumns(map[string]any{
			"customer_id": customer.ID,
			"status":      partner.LeadStatusConverted,
		}).Error; err != nil {
			return err
		}
		result.Changed++
	}
	return nil
}

// ImportCustomers upserts customers by email from the first sheet of an XLSX
// file with the header row email, first_name, last_name, phone
type ImportCustomers struct{}

func (ImportCustomers) Name() string        { return "import-customers" }
func (ImportCustomers) Description() string { return "upsert customers from an XLSX file (--file)" }

func (ImportCustomers) Run(ctx context.Context, tx *gorm.DB, opts Options, result *Result) error {
	path := opts.Param("file")
	if path == "" {
		return errors.New("--file is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := export.ReadFirstSheet(f)
	if err != nil {
		return err
	}

	for i, rec := range records {
		result.Scanned++
		line := i + 2
		email, err := shared.NormalizeEmail(rec["email"])
		if err != nil {
			result.conflict("row %d: %v", line, err)
			continue
		}

		var existing models.CustomerModel
		err = tx.WithContext(ctx).Where("email = ?", email).First(&existing).Error
		switch {
		case err == nil:
			updates := map[string]any{}
			for _, col := range []string{"first_name", "last_name", "phone"} {
				if v := rec[col]; v != "" {
					updates[col] = v
				}
			}
			if len(updates) == 0 {
				continue
			}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return fmt.Errorf("row %d: %w", line, err)
			}
			result.Changed++

		case errors.Is(err, gorm.ErrRecordNotFound):
			customer, err := partner.NewCustomer(email, rec["first_name"], rec["last_name"])
			if err != nil {
				result.conflict("row %d: %v", line, err)
				continue
			}
			if err := customer.Update(customer.FirstName, customer.LastName, rec["phone"]); err != nil {
				result.conflict("row %d: %v", line, err)
				continue
			}
			if err := tx.Create(models.CustomerModelFromDomain(customer)).Error; err != nil {
				return fmt.Errorf("row %d: %w", line, err)
			}
			result.Changed++

		default:
			return err
		}
	}
	return nil
}

// SeedAdmin creates the first admin account (--email, --password, --name).
// It does nothing when a user with that email already exists.
type SeedAdmin struct{}

func (SeedAdmin) Name() string        { return "seed-admin" }
func (SeedAdmin) Description() string { return "create an admin user (--email --password [--name])" }

func (SeedAdmin) Run(ctx context.Context, tx *gorm.DB, opts Options, result *Result) error {
	name := opts.Param("name")
	if name == "" {
		name = "Administrator"
	}
	user, err := identity.NewUser(opts.Param("email"), name, opts.Param("password"), identity.RoleAdmin)
	if err != nil {
		return err
	}

	result.Scanned++
	var count int64
	if err := tx.WithContext(ctx).Model(&models.UserModel{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		result.conflict("user %s already exists", user.Email)
		return nil
	}
	if err := tx.Create(models.UserModelFromDomain(user)).Error; err != nil {
		return err
	}
	result.Changed++
	return nil
}
