package catalog

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"

	"github.com/icyphotoget/perfume/internal/core/domain"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Finalize validates a freshly loaded catalog and stamps its source, version
// and load time. Every source passes its result through here.
func Finalize(source string, items []domain.Item, categories []domain.Category) (domain.Catalog, error) {
	v := validatorInstance()

	slugs := make(map[string]struct{}, len(categories))
	for i, category := range categories {
		if err := v.Struct(category); err != nil {
			return domain.Catalog{}, invalid(source, fmt.Errorf("category %d: %s", i, describe(err)))
		}
		if _, dup := slugs[category.Slug]; dup {
			return domain.Catalog{}, invalid(source, fmt.Errorf("duplicate category slug %q", category.Slug))
		}
		slugs[category.Slug] = struct{}{}
	}

	ids := make(map[string]struct{}, len(items))
	for i, item := range items {
		if err := v.Struct(item); err != nil {
			return domain.Catalog{}, invalid(source, fmt.Errorf("item %d (%s): %s", i, item.ID, describe(err)))
		}
		if _, dup := ids[item.ID]; dup {
			return domain.Catalog{}, invalid(source, fmt.Errorf("duplicate item id %q", item.ID))
		}
		ids[item.ID] = struct{}{}
	}

	if items == nil {
		items = []domain.Item{}
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return domain.Catalog{
		Version:    ulid.Make().String(),
		Source:     source,
		LoadedAt:   time.Now().UTC(),
		Items:      items,
		Categories: categories,
	}, nil
}

func invalid(source string, err error) error {
	return domain.WrapError(domain.ErrInvalidCatalog, "load catalog "+source, err)
}

func describe(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

// SplitTags splits a flat tag cell on "|" or ",".
func SplitTags(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool { return r == '|' || r == ',' })
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		if tag := strings.TrimSpace(field); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
