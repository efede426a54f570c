package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/simkit/mc"
	"github.com/simkit/mc/dist"
)

// modelFile is the YAML schema for a stochastic model.
type modelFile struct {
	ID        string         `yaml:"id"`
	Variables []variableSpec `yaml:"variables"`
	Dependencies []struct {
		From string `yaml:"from"`
		To   string `yaml:"to"`
	} `yaml:"dependencies"`
	Constraints []string `yaml:"constraints"`
}

type variableSpec struct {
	Name          string             `yaml:"name"`
	Distribution  string             `yaml:"distribution"`
	Params        map[string]float64 `yaml:"params"`
	Probabilities map[string]float64 `yaml:"probabilities"`
	Observed      bool               `yaml:"observed"`
	Domain        *domainSpec        `yaml:"domain"`
}

type domainSpec struct {
	Kind       string   `yaml:"kind"`
	Min        float64  `yaml:"min"`
	Max        float64  `yaml:"max"`
	Categories []string `yaml:"categories"`
}

// loadModel reads and converts a YAML model file.
func loadModel(path string) (*mc.Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading model file")
	}

	var mf modelFile
	if err := yaml.Unmarshal(raw, &mf); err != nil {
		return nil, errors.Wrap(err, "parsing model file")
	}
	return mf.toModel()
}

func (mf *modelFile) toModel() (*mc.Model, error) {
	model := &mc.Model{
		ID:          mf.ID,
		Constraints: mf.Constraints,
	}
	for _, d := range mf.Dependencies {
		model.Dependencies = append(model.Dependencies, mc.Dependency{From: d.From, To: d.To})
	}

	for _, v := range mf.Variables {
		d, err := dist.Parse(dist.Type(v.Distribution), v.Params, v.Probabilities)
		if err != nil {
			return nil, errors.Wrapf(err, "variable %q", v.Name)
		}
		variable := mc.Variable{Name: v.Name, Dist: d, Observed: v.Observed}
		if v.Domain != nil {
			variable.Domain = &mc.Domain{
				Kind:       mc.DomainKind(v.Domain.Kind),
				Min:        v.Domain.Min,
				Max:        v.Domain.Max,
				Categories: v.Domain.Categories,
			}
		}
		model.Variables = append(model.Variables, variable)
	}
	return model, nil
}
