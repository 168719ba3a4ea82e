// Package encoding writes thumbnails as WebP.
//
// The encoder wraps libwebp through github.com/kolesa-team/go-webp. Quality
// follows the 0-100 scale of the thumbs configuration and the compression
// method defaults to 6, the slowest and smallest setting.
package encoding
