package app

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var contentYAML []byte

// SiteContent is the marketing-site copy served to the frontend. It is
// editorial content, not event data: it ships with the binary and only
// changes on deploy.
type SiteContent struct {
	Site struct {
		Name        string `yaml:"name" json:"name"`
		Description string `yaml:"description" json:"description"`
		URL         string `yaml:"url" json:"url"`
		Contact     struct {
			Telefoon string `yaml:"telefoon" json:"telefoon"`
			Email    string `yaml:"email" json:"email"`
			Whatsapp string `yaml:"whatsapp" json:"whatsapp"`
			Adres    string `yaml:"adres" json:"adres"`
		} `yaml:"contact" json:"contact"`
	} `yaml:"site" json:"site"`

	Hero struct {
		Titel    string `yaml:"titel" json:"titel"`
		Subtitel string `yaml:"subtitel" json:"subtitel"`
	} `yaml:"hero" json:"hero"`

	About struct {
		Titel string `yaml:"titel" json:"titel"`
		Intro string `yaml:"intro" json:"intro"`
	} `yaml:"about" json:"about"`

	Diensten []struct {
		ID           string `yaml:"id" json:"id"`
		Titel        string `yaml:"titel" json:"titel"`
		Beschrijving string `yaml:"beschrijving" json:"beschrijving"`
	} `yaml:"diensten" json:"diensten"`
}

// LoadSiteContent parses the embedded content document.
func LoadSiteContent() (*SiteContent, error) {
	var content SiteContent
	if err := yaml.Unmarshal(contentYAML, &content); err != nil {
		return nil, fmt.Errorf("parse content.yaml: %w", err)
	}
	return &content, nil
}
