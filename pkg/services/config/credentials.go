package config

import (
	"context"
	"fmt"

	"gopkg.in/ini.v1"
)

// Registry reads API credentials from an ini file with one section per
// profile:
//
//	[default]
//	apikey = ...
type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetAPIKey(ctx context.Context, profile string) (string, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetAPIKey(_ context.Context, profile string) (string, error) {
	section, err := cr.cfg.GetSection(profile)
	if err != nil {
		return "", fmt.Errorf("profile %s not found", profile)
	}

	key := section.Key("apikey").String()
	if key == "" {
		return "", fmt.Errorf("profile %s has no apikey", profile)
	}
	return key, nil
}
