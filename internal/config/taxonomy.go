package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Category is one top-level entry of the document taxonomy offered by
// the UI picker. The taxonomy constrains nothing server-side; documents
// keep free-form category text.
type Category struct {
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories"`
}

// DefaultTaxonomy is the built-in category set, used when no taxonomy
// file is configured.
var DefaultTaxonomy = []Category{
	{Name: "Financials", Subcategories: []string{"Annual Reports", "Quarterly Reports", "Budgets", "Forecasts"}},
	{Name: "Legal", Subcategories: []string{"Contracts", "Litigation", "Compliance"}},
	{Name: "Corporate", Subcategories: []string{"Board Minutes", "Shareholder Agreements", "Bylaws", "Org Charts"}},
	{Name: "Human Resources", Subcategories: []string{"Policies", "Headcount", "Compensation"}},
	{Name: "Tax", Subcategories: []string{"Returns", "Assessments", "Rulings"}},
	{Name: "Real Estate", Subcategories: []string{"Leases", "Deeds", "Valuations"}},
	{Name: "Intellectual Property", Subcategories: []string{"Patents", "Trademarks", "Licenses", "Assignments"}},
	{Name: "Operations", Subcategories: []string{"Suppliers", "Customers", "Processes"}},
	{Name: "Insurance", Subcategories: []string{"Policies", "Claims", "Certificates"}},
}

// LoadTaxonomy returns the category taxonomy. When path is empty the
// built-in default set is returned; otherwise the JSON file at path is
// parsed, so the taxonomy can change without redeploying the service.
func LoadTaxonomy(path string) ([]Category, error) {
	if path == "" {
		return DefaultTaxonomy, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy file: %w", err)
	}
	var cats []Category
	if err := json.Unmarshal(data, &cats); err != nil {
		return nil, fmt.Errorf("parse taxonomy file: %w", err)
	}
	if len(cats) == 0 {
		return nil, fmt.Errorf("taxonomy file %s contains no categories", path)
	}
	return cats, nil
}
