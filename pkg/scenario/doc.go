// Package scenario defines workflow scenario documents and their YAML form.
//
// A scenario is a named sequence of roles, states, tools and transitions.
// States are the nodes of a workflow graph and are identified by their
// unique name; transitions are directed edges between state names with an
// optional condition label.
//
// # Documents
//
// Scenarios are authored as YAML:
//
//	name: Incident Response
//	description: Handle a production incident
//	roles:
//	  - name: On-call
//	    description: First responder
//	states:
//	  - name: Triage
//	    description: Assess impact
//	    roles: [On-call]
//	transitions:
//	  - from: Triage
//	    to: Mitigate
//	    condition: severity >= 2
//
// Use [Parse] and [ReadFile] to decode, [Marshal] to encode, and [Format] to
// normalize a document in place.
//
// # Validation
//
// [Validate] enforces required fields and unique state names. Transitions
// that reference unknown states are not validation errors: the layout engine
// ignores them. [Scenario.DanglingTransitions] reports them for warnings.
package scenario
