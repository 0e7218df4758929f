package board

import (
	"slices"
	"sort"
	"strings"

	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/task"
)

// Package is a declared package of the board catalog. Tasks reference a
// package by name; a name used by tasks need not be declared.
type Package struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Color       string `yaml:"color,omitempty" json:"color,omitempty"`
	Team        string `yaml:"team,omitempty" json:"team,omitempty"`
}

// Templates are the built-in package sets ApplyTemplate accepts.
var Templates = map[string][]Package{
	"software": {
		{Name: "Planning", Description: "Scoping, requirements and design", Color: "blue"},
		{Name: "Development", Description: "Implementation work", Color: "green"},
		{Name: "Testing", Description: "Verification and QA", Color: "yellow"},
	},
	"marketing": {
		{Name: "Campaign Planning", Description: "Goals, audience and budget", Color: "purple"},
		{Name: "Content Creation", Description: "Copy, design and assets", Color: "orange"},
		{Name: "Campaign Execution", Description: "Launch and follow-up", Color: "red"},
	},
}

// TemplateNames returns the template names in sorted order.
func TemplateNames() []string {
	names := make([]string, 0, len(Templates))
	for name := range Templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasPackage reports whether the catalog declares name.
func (b *Board) HasPackage(name string) bool {
	return slices.ContainsFunc(b.Packages, func(p Package) bool { return p.Name == name })
}

// AddPackage declares a package.
func (b *Board) AddPackage(p Package) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return clierr.New(clierr.InvalidInput, "package name is required")
	}
	if p.Name == task.Unassigned {
		return clierr.Newf(clierr.InvalidInput, "%q is reserved for tasks without a package", p.Name)
	}
	if b.HasPackage(p.Name) {
		return clierr.Newf(clierr.DuplicatePackage, "package already exists: %s", p.Name).
			WithDetails(map[string]any{"package": p.Name})
	}
	b.Packages = append(slices.Clone(b.Packages), p)
	return nil
}

// DeletePackage removes a declared package. A package that any task
// still references cannot be deleted.
func (b *Board) DeletePackage(name string) error {
	i := slices.IndexFunc(b.Packages, func(p Package) bool { return p.Name == name })
	if i < 0 {
		return packageNotFound(name)
	}
	n := 0
	for _, t := range b.AllTasks() {
		if t.Package == name {
			n++
		}
	}
	if n > 0 {
		return clierr.Newf(clierr.PackageNotEmpty, "package %s still has %d task(s)", name, n).
			WithDetails(map[string]any{"package": name, "tasks": n})
	}
	b.Packages = slices.Delete(slices.Clone(b.Packages), i, i+1)
	delete(b.PackageOrder, name)
	return nil
}

// ApplyTemplate declares the packages of a built-in template, skipping
// names already present, and returns the packages it added.
func (b *Board) ApplyTemplate(name string) ([]Package, error) {
	tmpl, ok := Templates[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, clierr.Newf(clierr.InvalidInput, "unknown package template %q", name).
			WithDetails(map[string]any{"template": name, "allowed": TemplateNames()})
	}
	var added []Package
	for _, p := range tmpl {
		if b.HasPackage(p.Name) {
			continue
		}
		b.Packages = append(slices.Clone(b.Packages), p)
		added = append(added, p)
	}
	return added, nil
}

// PackageSummary describes a package with its task counts.
type PackageSummary struct {
	Package
	Declared  bool `json:"declared"`
	Total     int  `json:"total"`
	Completed int  `json:"completed"`
}

// PackageSummaries lists declared packages in catalog order followed by
// undeclared package names in use, in first-seen order.
func (b *Board) PackageSummaries() []PackageSummary {
	index := make(map[string]int, len(b.Packages))
	out := make([]PackageSummary, 0, len(b.Packages))
	for _, p := range b.Packages {
		index[p.Name] = len(out)
		out = append(out, PackageSummary{Package: p, Declared: true})
	}
	for _, t := range b.AllTasks() {
		name := t.PackageName()
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, PackageSummary{Package: Package{Name: name}})
		}
		out[i].Total++
		if string(t.Status) == b.CompletedTitle() {
			out[i].Completed++
		}
	}
	return out
}
