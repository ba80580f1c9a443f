// Copyright (c) 2026 Triibes. All rights reserved.

/*
Package project exposes the read-only view of manuscripts that the beta-reading
subsystem needs.

Manuscript editing, versioning, and project CRUD live in the core platform
service; this package only resolves ownership (the precondition for every
author-side beta operation) and loads the manuscript document that the content
filter projects down for readers.
*/
package project

import "time"

// Project is the author-facing manuscript container.
type Project struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Document is the manuscript body stored as a JSON document.
//
// The editor owns this shape; the beta subsystem treats chapter and scene
// identifiers as opaque strings and never writes the document.
type Document struct {
	Title    string    `json:"title"`
	Chapters []Chapter `json:"chapters"`
}

// Chapter is one manuscript chapter inside a [Document].
type Chapter struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Summary string  `json:"summary,omitempty"`
	Scenes  []Scene `json:"scenes,omitempty"`
}

// Scene is one scene inside a [Chapter].
type Scene struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
}

// ChapterTitles returns the titles for the given chapter ids, in the order the
// ids appear in the document. Unknown ids are skipped.
func (d *Document) ChapterTitles(chapterIDs []string) []string {
	wanted := make(map[string]struct{}, len(chapterIDs))
	for _, id := range chapterIDs {
		wanted[id] = struct{}{}
	}

	titles := make([]string, 0, len(chapterIDs))
	for _, chapter := range d.Chapters {
		if _, ok := wanted[chapter.ID]; ok {
			titles = append(titles, chapter.Title)
		}
	}
	return titles
}
