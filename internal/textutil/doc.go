// Package textutil provides text processing helpers shared by the clustering
// and template packages.
//
// The primary use cases are:
//   - Reducing HTML story summaries to plain text before prompting or comparing
//   - Token fingerprints with TF-IDF weighting and cosine similarity, used to
//     group related stories and compare cluster themes with proposal titles
//   - Normalizing identifiers (milestone types) and humanizing them into labels
//
// Tokenization lowercases text, splits on non-alphanumeric characters, and
// drops tokens shorter than 3 characters.
package textutil
