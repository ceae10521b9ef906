package checklist

import (
	"fmt"
	"time"
)

// Status is the coarse audit progress bucket.
type Status string

const (
	StatusReady       Status = "ready"
	StatusNearlyReady Status = "nearly_ready"
	StatusInProgress  Status = "in_progress"
	StatusEarlyStage  Status = "early_stage"
)

// Label returns the banner shown for a status.
func (s Status) Label() string {
	switch s {
	case StatusReady:
		return "AUDIT STATUS: READY FOR DEPLOYMENT - All critical items completed"
	case StatusNearlyReady:
		return "AUDIT STATUS: NEARLY READY - Minor items remaining"
	case StatusInProgress:
		return "AUDIT STATUS: IN PROGRESS - Significant work remaining"
	}
	return "AUDIT STATUS: EARLY STAGE - Major work required"
}

// Status buckets the checklist by readiness and percentage.
func (c *Checklist) Status() Status {
	pct := c.CompletionPercentage()
	switch {
	case c.IsDeploymentReady():
		return StatusReady
	case pct >= 80:
		return StatusNearlyReady
	case pct >= 50:
		return StatusInProgress
	}
	return StatusEarlyStage
}

// Statistics are item counts for monitoring.
type Statistics struct {
	TotalItems           int
	CompletedItems       int
	CriticalItems        int
	CriticalCompleted    int
	HighItems            int
	HighCompleted        int
	CompletionPercentage int
}

// Statistics counts items by priority and completion.
func (c *Checklist) Statistics() Statistics {
	var s Statistics
	for _, it := range c.Items {
		s.TotalItems++
		if it.Completed {
			s.CompletedItems++
		}
		switch it.Priority {
		case PriorityCritical:
			s.CriticalItems++
			if it.Completed {
				s.CriticalCompleted++
			}
		case PriorityHigh:
			s.HighItems++
			if it.Completed {
				s.HighCompleted++
			}
		}
	}
	s.CompletionPercentage = percentage(s.CompletedItems, s.TotalItems)
	return s
}

// CategoryStatus is the completion of one category.
type CategoryStatus struct {
	Category  Category
	Complete  bool
	Completed int
	Total     int
}

// Report is a read-only snapshot of a checklist.
type Report struct {
	ChecklistID          string
	Version              string
	Status               Status
	CompletionPercentage int
	CompletedItems       int
	TotalItems           int
	DeploymentReady      bool
	Categories           []CategoryStatus
	IncompleteCritical   []Item
	IncompleteHigh       []Item
	Recommendations      []string
	NextSteps            []string
	LastUpdated          time.Time
}

// Report builds a snapshot. It does not modify the checklist.
func (c *Checklist) Report() Report {
	r := Report{
		ChecklistID:          c.ID,
		Version:              c.Version,
		Status:               c.Status(),
		CompletionPercentage: c.CompletionPercentage(),
		CompletedItems:       c.CompletedCount(),
		TotalItems:           len(c.Items),
		DeploymentReady:      c.IsDeploymentReady(),
		LastUpdated:          c.LastUpdated,
	}

	for _, cat := range Categories() {
		cs := CategoryStatus{Category: cat, Complete: c.CategoryComplete(cat)}
		for _, it := range c.ItemsByCategory(cat) {
			cs.Total++
			if it.Completed {
				cs.Completed++
			}
		}
		r.Categories = append(r.Categories, cs)
	}

	for _, it := range c.Items {
		if it.Completed {
			continue
		}
		switch it.Priority {
		case PriorityCritical:
			r.IncompleteCritical = append(r.IncompleteCritical, it)
		case PriorityHigh:
			r.IncompleteHigh = append(r.IncompleteHigh, it)
		}
	}

	r.Recommendations, r.NextSteps = c.advice(r)
	return r
}

func (c *Checklist) advice(r Report) (recommendations, nextSteps []string) {
	if r.DeploymentReady {
		recommendations = append(recommendations, "All deployment gates pass")
		if r.CompletedItems < r.TotalItems {
			recommendations = append(recommendations,
				fmt.Sprintf("%d non-blocking item(s) remain; close them after deployment", r.TotalItems-r.CompletedItems))
		}
		nextSteps = append(nextSteps, "Proceed with mainnet deployment")
		return recommendations, nextSteps
	}

	if n := len(r.IncompleteCritical); n > 0 {
		recommendations = append(recommendations, fmt.Sprintf("Complete %d remaining critical item(s) before deployment", n))
		for _, it := range r.IncompleteCritical {
			nextSteps = append(nextSteps, fmt.Sprintf("Complete item %d: %s", it.ID, it.Description))
		}
	}
	if !c.CategoryComplete(CategorySecurity) {
		recommendations = append(recommendations, "Finish the Security category")
	}
	if !c.CategoryComplete(CategoryDeployment) {
		recommendations = append(recommendations, "Finish the Deployment category")
	}
	if r.CompletionPercentage < MinDeploymentPercentage {
		recommendations = append(recommendations,
			fmt.Sprintf("Raise overall completion from %d%% to at least %d%%", r.CompletionPercentage, MinDeploymentPercentage))
	}
	if n := len(r.IncompleteHigh); n > 0 {
		recommendations = append(recommendations, fmt.Sprintf("Address %d high-priority item(s)", n))
		if len(r.IncompleteCritical) == 0 {
			for _, it := range r.IncompleteHigh {
				nextSteps = append(nextSteps, fmt.Sprintf("Complete item %d: %s", it.ID, it.Description))
			}
		}
	}
	if len(nextSteps) == 0 {
		for _, it := range c.Items {
			if !it.Completed {
				nextSteps = append(nextSteps, fmt.Sprintf("Complete item %d: %s", it.ID, it.Description))
			}
		}
	}
	return recommendations, nextSteps
}
