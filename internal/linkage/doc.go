// Package linkage joins the curated game table with the sales and ratings
// tables by approximate name matching.
//
// Every source row produces exactly one combined row, in source order. Sales
// and ratings are matched independently; a match copies every field of the
// first target row carrying the winning name, and a rejected match leaves
// those fields missing.
package linkage
