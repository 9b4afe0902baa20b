package domain

import (
	"fmt"
	"net/url"
	"strings"
)

type ProfileName string

type Profile struct {
	Name       ProfileName
	Username   string
	SecretRef  string
	SharePoint SharePointList
	LastRun    *RunSummary
}

type SharePointList struct {
	SiteURL    string
	ListName   string
	ModulePath string
	// FieldMap maps a SharePoint column title to a contact field.
	FieldMap map[string]string
}

// DefaultSharePointFieldMap matches the Dutch column titles of the contact
// list this tool was first written for.
func DefaultSharePointFieldMap() map[string]string {
	return map[string]string{
		"E-mailadres":    FieldEmail,
		"Volledige naam": FieldName,
	}
}

func (p Profile) Validate() error {
	if strings.TrimSpace(string(p.Name)) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(p.SharePoint.SiteURL) == "" {
		return fmt.Errorf("sharepoint site url is required")
	}
	parsed, err := url.Parse(p.SharePoint.SiteURL)
	if err != nil || parsed.Scheme != "https" || parsed.Host == "" {
		return fmt.Errorf("sharepoint site url %q must be an absolute https url", p.SharePoint.SiteURL)
	}
	if strings.TrimSpace(p.SharePoint.ListName) == "" {
		return fmt.Errorf("sharepoint list name is required")
	}

	hasKey := false
	for column, field := range p.SharePoint.FieldMap {
		if strings.TrimSpace(column) == "" {
			return fmt.Errorf("field map contains an empty column title")
		}
		if !IsKnownField(field) {
			return fmt.Errorf("column %q maps to unknown field %q", column, field)
		}
		if field == FieldEmail {
			hasKey = true
		}
	}
	if !hasKey {
		return fmt.Errorf("field map must map a column to %q", FieldEmail)
	}

	return nil
}

func (p *Profile) ApplyDefaults() {
	if p == nil {
		return
	}

	p.Name = ProfileName(strings.TrimSpace(string(p.Name)))
	p.SharePoint.SiteURL = strings.TrimRight(strings.TrimSpace(p.SharePoint.SiteURL), "/")
	if len(p.SharePoint.FieldMap) == 0 {
		p.SharePoint.FieldMap = DefaultSharePointFieldMap()
	}
}
