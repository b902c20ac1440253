package reporter

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ethanolivertroy/incgraph/internal/models"
)

// SARIFReporter outputs diagnostics in SARIF format for code scanning
type SARIFReporter struct{}

// SARIF structures
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	ShortDescription sarifText       `json:"shortDescription"`
	DefaultConfig    sarifRuleConfig `json:"defaultConfiguration"`
	Properties       sarifProperties `json:"properties"`
}

type sarifText struct {
	Text string `json:"text"`
}

type sarifRuleConfig struct {
	Level string `json:"level"`
}

type sarifProperties struct {
	Tags []string `json:"tags"`
}

type sarifResult struct {
	RuleID              string            `json:"ruleId"`
	RuleIndex           int               `json:"ruleIndex"`
	Level               string            `json:"level"`
	Message             sarifText         `json:"message"`
	Locations           []sarifLocation   `json:"locations,omitempty"`
	PartialFingerprints map[string]string `json:"partialFingerprints"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           *sarifRegion  `json:"region,omitempty"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine,omitempty"`
}

// Indexes into sarifRules
const (
	ruleMalformed = iota
	ruleUnresolved
	ruleCycle
	ruleUnreachable
	ruleDuplicate
	ruleScanIO
	ruleConfig
	ruleOther
)

var sarifRules = []sarifRule{
	newRule("INC001", "MalformedReference", "Inclusion directive could not be parsed", "warning"),
	newRule("INC002", "UnresolvedReference", "Reference matches no toolchain, third-party or internal root", "error"),
	newRule("INC003", "DependencyCycle", "Packages depend on each other circularly", "error"),
	newRule("INC004", "UnreachablePackage", "Package is not reachable from any application or root", "warning"),
	newRule("INC005", "DuplicatePackageDefinition", "Module is claimed by more than one package", "error"),
	newRule("INC006", "ScanIO", "Module could not be read", "error"),
	newRule("INC007", "Config", "Invalid project description", "error"),
	newRule("INC999", "ResolutionError", "Resolution failed", "error"),
}

func newRule(id, name, desc, level string) sarifRule {
	return sarifRule{
		ID:               id,
		Name:             name,
		ShortDescription: sarifText{Text: desc},
		DefaultConfig:    sarifRuleConfig{Level: level},
		Properties:       sarifProperties{Tags: []string{"build", "dependencies"}},
	}
}

// Report generates SARIF output for the diagnostics of result
func (r *SARIFReporter) Report(result *models.Result) ([]byte, error) {
	report := sarifReport{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool: sarifTool{
				Driver: sarifDriver{
					Name:           "incgraph",
					Version:        "1.0.0",
					InformationURI: "https://github.com/ethanolivertroy/incgraph",
					Rules:          sarifRules,
				},
			},
			Results: r.buildResults(&result.Diagnostics),
		}},
	}

	return json.MarshalIndent(report, "", "  ")
}

func (r *SARIFReporter) buildResults(d *models.Diagnostics) []sarifResult {
	results := []sarifResult{}

	for _, w := range d.Malformed {
		results = append(results, newResult(ruleMalformed, "",
			fmt.Sprintf("%s: %s", w.Reason, w.Text), w.Module, w.Line))
	}

	for _, u := range d.Unresolved {
		level := ""
		if u.Optional {
			level = "warning"
		}
		results = append(results, newResult(ruleUnresolved, level,
			fmt.Sprintf("Unresolved reference %s", models.DependencyReference{Raw: u.Raw, Form: u.Form}), u.Module, u.Line))
	}

	for _, w := range d.Unreachable {
		results = append(results, newResult(ruleUnreachable, "", w.String(), "", 0))
	}

	for _, err := range d.Errors {
		var (
			unres   *models.UnresolvedReferenceError
			cycle   *models.DependencyCycleError
			dup     *models.DuplicatePackageDefinitionError
			scanErr *models.ScanIOError
			cfg     *models.ConfigError
			unreach *models.UnreachablePackageError
		)
		switch {
		case errors.As(err, &unres):
			// already reported from the unresolved list
		case errors.As(err, &cycle):
			for _, c := range cycle.Cycles {
				walk := append(append([]string{}, c.Path...), c.Path[0])
				results = append(results, newResult(ruleCycle, "",
					fmt.Sprintf("Dependency cycle between %s: %s", strings.Join(c.Members, ", "), strings.Join(walk, " -> ")), "", 0))
			}
		case errors.As(err, &dup):
			results = append(results, newResult(ruleDuplicate, "", dup.Error(), dup.Module, 0))
		case errors.As(err, &scanErr):
			results = append(results, newResult(ruleScanIO, "", scanErr.Error(), scanErr.Path, 0))
		case errors.As(err, &cfg):
			results = append(results, newResult(ruleConfig, "", cfg.Error(), "", 0))
		case errors.As(err, &unreach):
			for _, id := range unreach.Packages {
				results = append(results, newResult(ruleUnreachable, "error",
					models.UnreachablePackageWarning{Package: id}.String(), "", 0))
			}
		default:
			results = append(results, newResult(ruleOther, "", err.Error(), "", 0))
		}
	}

	return results
}

// newResult builds a result for rule. An empty level means the rule's
// default level.
func newResult(rule int, level, msg, uri string, line int) sarifResult {
	if level == "" {
		level = sarifRules[rule].DefaultConfig.Level
	}
	res := sarifResult{
		RuleID:    sarifRules[rule].ID,
		RuleIndex: rule,
		Level:     level,
		Message:   sarifText{Text: msg},
		PartialFingerprints: map[string]string{
			"primaryLocationLineHash": fmt.Sprintf("%s:%s:%d:%s", sarifRules[rule].ID, uri, line, msg),
		},
	}
	if uri != "" {
		loc := sarifLocation{PhysicalLocation: sarifPhysicalLocation{ArtifactLocation: sarifArtifact{URI: uri}}}
		if line > 0 {
			loc.PhysicalLocation.Region = &sarifRegion{StartLine: line}
		}
		res.Locations = []sarifLocation{loc}
	}
	return res
}
