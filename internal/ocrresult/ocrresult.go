// Package ocrresult defines the public OcrResult schema this core
// produces.
package ocrresult

import "github.com/screenager/ocrcore/internal/geometry"

// BoundingBox describes one region at three fidelity levels.
type BoundingBox struct {
	Polygon geometry.Polygon           `json:"polygon"`
	AARect  geometry.AARectangle       `json:"aarectangle"`
	ORect   geometry.OrientedRectangle `json:"orectangle"`
}

// Word is a single recognized text region.
type Word struct {
	ID          string      `json:"id"`
	BoundingBox BoundingBox `json:"boundingBox"`
	Confidence  float64     `json:"confidence"`
	Text        string      `json:"text"`
}

// Line groups the word ids that were merged into it, left-to-right.
type Line struct {
	ID          string      `json:"id"`
	BoundingBox BoundingBox `json:"boundingBox"`
	Confidence  float64     `json:"confidence"`
	Text        string      `json:"text"`
	WordIDs     []string    `json:"wordIds"`
}

// Block groups the line ids on one logical block of text.
type Block struct {
	ID          string      `json:"id"`
	BoundingBox BoundingBox `json:"boundingBox"`
	Confidence  float64     `json:"confidence"`
	Text        string      `json:"text"`
	LineIDs     []string    `json:"lineIds"`
}

// Page is the result for one image: { pageNumber, blocks, lines, words }.
type Page struct {
	PageNumber int     `json:"pageNumber"`
	Blocks     []Block `json:"blocks"`
	Lines      []Line  `json:"lines"`
	Words      []Word  `json:"words"`
}
