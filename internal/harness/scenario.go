package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/helixpacs/pacsindex/internal/index"
)

// Scenario is one declarative deletion test case.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Resources declares the tree, parents before children.
	Resources []ResourceStep `yaml:"resources"`

	// Delete is the public id of the resource to remove.
	Delete string `yaml:"delete"`

	// Expect states the signals the deletion must produce.
	Expect Expectation `yaml:"expect"`
}

// ResourceStep declares one resource of the scenario tree.
type ResourceStep struct {
	// PublicID is the external identifier of the resource.
	PublicID string `yaml:"publicId"`

	// Type is the hierarchy level: Patient, Study, Series or Instance.
	Type string `yaml:"type"`

	// Parent references a previously declared resource, empty for
	// top-level resources.
	Parent string `yaml:"parent,omitempty"`

	// Attachments to register on this resource.
	Attachments []AttachmentStep `yaml:"attachments,omitempty"`

	// Unprotected enrolls a patient into the recycling queue.
	Unprotected bool `yaml:"unprotected,omitempty"`
}

// AttachmentStep declares one attachment record.
type AttachmentStep struct {
	UUID             string `yaml:"uuid"`
	ContentType      string `yaml:"contentType"`
	UncompressedSize uint64 `yaml:"uncompressedSize"`
	CompressedSize   uint64 `yaml:"compressedSize"`
}

// Expectation states the signals a deletion must produce.
type Expectation struct {
	// Deleted lists the public ids that must receive a Deleted change,
	// in any order.
	Deleted []string `yaml:"deleted"`

	// Files lists the attachment uuids that must be reported as
	// physically removed, in any order.
	Files []string `yaml:"files,omitempty"`

	// Ancestor is the single expected surviving-ancestor report, nil
	// when none must fire.
	Ancestor *AncestorExpect `yaml:"ancestor,omitempty"`
}

// AncestorExpect identifies the expected surviving ancestor.
type AncestorExpect struct {
	Type     string `yaml:"type"`
	PublicID string `yaml:"publicId"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields
// are rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Resources) == 0 {
		return fmt.Errorf("resources list is required and must be non-empty")
	}
	if s.Delete == "" {
		return fmt.Errorf("delete target is required")
	}

	declared := map[string]struct{}{}
	for i, step := range s.Resources {
		if step.PublicID == "" {
			return fmt.Errorf("resources[%d]: publicId is required", i)
		}
		if _, dup := declared[step.PublicID]; dup {
			return fmt.Errorf("resources[%d]: duplicate publicId %q", i, step.PublicID)
		}
		if _, err := parseResourceType(step.Type); err != nil {
			return fmt.Errorf("resources[%d]: %w", i, err)
		}
		if step.Parent != "" {
			if _, ok := declared[step.Parent]; !ok {
				return fmt.Errorf("resources[%d]: parent %q not declared before use", i, step.Parent)
			}
		}
		for j, att := range step.Attachments {
			if att.UUID == "" {
				return fmt.Errorf("resources[%d].attachments[%d]: uuid is required", i, j)
			}
			if _, err := parseContentType(att.ContentType); err != nil {
				return fmt.Errorf("resources[%d].attachments[%d]: %w", i, j, err)
			}
		}
		declared[step.PublicID] = struct{}{}
	}

	if _, ok := declared[s.Delete]; !ok {
		return fmt.Errorf("delete target %q is not a declared resource", s.Delete)
	}
	if s.Expect.Ancestor != nil {
		if _, err := parseResourceType(s.Expect.Ancestor.Type); err != nil {
			return fmt.Errorf("expect.ancestor: %w", err)
		}
	}
	return nil
}

func parseResourceType(name string) (index.ResourceType, error) {
	switch name {
	case "Patient":
		return index.ResourcePatient, nil
	case "Study":
		return index.ResourceStudy, nil
	case "Series":
		return index.ResourceSeries, nil
	case "Instance":
		return index.ResourceInstance, nil
	default:
		return 0, fmt.Errorf("unknown resource type %q", name)
	}
}

func parseContentType(name string) (index.FileContentType, error) {
	switch name {
	case "Dicom":
		return index.FileContentDicom, nil
	case "DicomAsJSON":
		return index.FileContentDicomAsJSON, nil
	default:
		return 0, fmt.Errorf("unknown content type %q", name)
	}
}
