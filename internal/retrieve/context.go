package retrieve

import (
	"context"
	"todoblocks/internal/importer"
	"todoblocks/internal/query"

	"github.com/pkg/errors"
	"github.com/sourcegraph/conc/pool"
)

type ProjectInfo struct {
	ID    string
	Name  string
	Order int
}

type SectionInfo struct {
	ID        string
	Name      string
	Order     int
	ProjectID string
}

type LabelInfo struct {
	ID   string
	Name string
}

// TodoistContext holds the auxiliary lookups of one retrieval.
type TodoistContext struct {
	Projects map[string]ProjectInfo
	Sections map[string]SectionInfo
	Labels   map[string]LabelInfo
}

type Requirements struct {
	Projects bool
	Sections bool
	Labels   bool
}

func emptyContext() TodoistContext {
	return TodoistContext{
		Projects: make(map[string]ProjectInfo),
		Sections: make(map[string]SectionInfo),
		Labels:   make(map[string]LabelInfo),
	}
}

// RequirementsFor derives which lookups cfg needs. Section grouping also needs
// projects because its headings carry the project name.
func RequirementsFor(cfg query.Config, prefs RenderPreferences) Requirements {
	sections := cfg.GroupBy == query.GroupSection
	projects := cfg.GroupBy == query.GroupProject || sections || cfg.Show.Has(query.ShowProject)
	labels := cfg.GroupBy == query.GroupLabels ||
		cfg.Show.Has(query.ShowLabels) ||
		prefs.EmbedLabelsInline
	return Requirements{
		Projects: projects,
		Sections: sections,
		Labels:   labels,
	}
}

// FetchContext runs one paginated fetch per required lookup. The fetches are
// independent and run concurrently; unset flags cost nothing.
func FetchContext(ctx context.Context, src Source, req Requirements) (TodoistContext, error) {
	out := emptyContext()
	p := pool.New().WithContext(ctx).WithCancelOnError()

	if req.Projects {
		p.Go(func(ctx context.Context) error {
			projects, err := importer.Collect(ctx, src.Projects)
			if err != nil {
				return errors.Wrap(err, "error fetching projects")
			}
			for _, project := range projects {
				out.Projects[project.ID] = ProjectInfo{ID: project.ID, Name: project.Name, Order: project.ChildOrder}
			}
			return nil
		})
	}
	if req.Sections {
		p.Go(func(ctx context.Context) error {
			sections, err := importer.Collect(ctx, src.Sections)
			if err != nil {
				return errors.Wrap(err, "error fetching sections")
			}
			for _, section := range sections {
				out.Sections[section.ID] = SectionInfo{
					ID:        section.ID,
					Name:      section.Name,
					Order:     section.SectionOrder,
					ProjectID: section.ProjectID,
				}
			}
			return nil
		})
	}
	if req.Labels {
		p.Go(func(ctx context.Context) error {
			labels, err := importer.Collect(ctx, src.Labels)
			if err != nil {
				return errors.Wrap(err, "error fetching labels")
			}
			for _, label := range labels {
				out.Labels[label.ID] = LabelInfo{ID: label.ID, Name: label.Name}
			}
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return TodoistContext{}, err
	}
	return out, nil
}
