package orgchart

import (
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/kantoorhq/kantoor/pkg/model"
)

// ErrCycle indicates the reporting data contains a manager loop.
var ErrCycle = errors.New("reporting cycle detected")

// Node is one box on the org chart. X is the horizontal center of the node
// in leaf units; Width is the number of leaves under it (at least 1).
type Node struct {
	ID      uuid.UUID  `json:"id"`
	Name    string     `json:"name"`
	Title   string     `json:"title,omitempty"`
	Email   string     `json:"email,omitempty"`
	TeamID  *uuid.UUID `json:"team_id,omitempty"`
	Depth   int        `json:"depth"`
	X       float64    `json:"x"`
	Width   float64    `json:"width"`
	Reports []*Node    `json:"reports,omitempty"`
}

// Build assembles the reporting forest from the person list. Persons whose
// manager is missing (or deleted) become roots. Returns ErrCycle when a
// manager loop keeps part of the directory unreachable from any root.
func Build(persons []model.Person) ([]*Node, error) {
	byID := make(map[uuid.UUID]*model.Person, len(persons))
	for i := range persons {
		byID[persons[i].ID] = &persons[i]
	}

	children := make(map[uuid.UUID][]*model.Person)
	var rootPersons []*model.Person
	for i := range persons {
		p := &persons[i]
		if p.ManagerID == nil {
			rootPersons = append(rootPersons, p)
			continue
		}
		if _, ok := byID[*p.ManagerID]; !ok {
			// Manager no longer in the directory
			rootPersons = append(rootPersons, p)
			continue
		}
		children[*p.ManagerID] = append(children[*p.ManagerID], p)
	}

	sortPersons(rootPersons)
	for _, kids := range children {
		sortPersons(kids)
	}

	seen := make(map[uuid.UUID]bool, len(persons))
	var roots []*Node
	offset := 0.0
	for _, p := range rootPersons {
		node := build(p, children, seen, 0)
		place(node, offset)
		offset += node.Width
		roots = append(roots, node)
	}

	if len(seen) != len(persons) {
		return nil, ErrCycle
	}
	return roots, nil
}

func build(p *model.Person, children map[uuid.UUID][]*model.Person, seen map[uuid.UUID]bool, depth int) *Node {
	seen[p.ID] = true
	node := &Node{
		ID:     p.ID,
		Name:   p.FullName(),
		Title:  p.Title,
		Email:  p.Email,
		TeamID: p.TeamID,
		Depth:  depth,
	}
	for _, c := range children[p.ID] {
		if seen[c.ID] {
			continue
		}
		node.Reports = append(node.Reports, build(c, children, seen, depth+1))
	}
	if len(node.Reports) == 0 {
		node.Width = 1
		return node
	}
	for _, r := range node.Reports {
		node.Width += r.Width
	}
	return node
}

// place assigns X positions: leaves sit at offset + 1/2, parents center
// over their reports.
func place(node *Node, offset float64) {
	if len(node.Reports) == 0 {
		node.X = offset + node.Width/2
		return
	}
	childOffset := offset
	for _, r := range node.Reports {
		place(r, childOffset)
		childOffset += r.Width
	}
	node.X = offset + node.Width/2
}

// PersonWouldCycle reports whether setting managerID as the manager of
// personID would create a loop in the reporting chain.
func PersonWouldCycle(persons []model.Person, personID, managerID uuid.UUID) bool {
	parents := make(map[uuid.UUID]uuid.UUID, len(persons))
	for _, p := range persons {
		if p.ManagerID != nil {
			parents[p.ID] = *p.ManagerID
		}
	}
	return wouldCycle(parents, personID, managerID)
}

// TeamWouldCycle reports whether setting parentID as the parent of teamID
// would create a loop in the team tree.
func TeamWouldCycle(teams []model.Team, teamID, parentID uuid.UUID) bool {
	parents := make(map[uuid.UUID]uuid.UUID, len(teams))
	for _, t := range teams {
		if t.ParentID != nil {
			parents[t.ID] = *t.ParentID
		}
	}
	return wouldCycle(parents, teamID, parentID)
}

// wouldCycle walks up from newParent; hitting start means the edge closes a
// loop. The walk is bounded by the map size to survive pre-existing loops.
func wouldCycle(parents map[uuid.UUID]uuid.UUID, start, newParent uuid.UUID) bool {
	if start == newParent {
		return true
	}
	current := newParent
	for range parents {
		parent, ok := parents[current]
		if !ok {
			return false
		}
		if parent == start {
			return true
		}
		current = parent
	}
	return false
}

func sortPersons(ps []*model.Person) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].LastName != ps[j].LastName {
			return ps[i].LastName < ps[j].LastName
		}
		return ps[i].FirstName < ps[j].FirstName
	})
}
