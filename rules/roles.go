package rules

import (
	"fmt"

	"github.com/nstehr/trooper/model"
)

// Policy names.
const (
	PolicyTrooper = "trooper"
	PolicyMedic   = "medic"
)

// roles is the static registry of unit roles to the policy that drives them.
// A role missing from it is a configuration error, never a silent default.
var roles = map[model.Role]string{
	model.Commander:  PolicyTrooper,
	model.Soldier:    PolicyTrooper,
	model.Sniper:     PolicyTrooper,
	model.Scout:      PolicyTrooper,
	model.FieldMedic: PolicyMedic,
}

// policyFor resolves the compiled policy for a role.
func policyFor(policies map[string]*Policy, r model.Role) (*Policy, error) {
	name, ok := roles[r]
	if !ok {
		return nil, fmt.Errorf("no policy for role %v", r)
	}
	p, ok := policies[name]
	if !ok {
		return nil, fmt.Errorf("policy %q for role %v not compiled", name, r)
	}
	return p, nil
}
