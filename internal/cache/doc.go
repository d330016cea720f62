// Package cache stores synthesized speech so repeated captions are not
// synthesized twice. It pairs an in-memory LRU with a zstd-compressed disk
// cache that persists between runs.
package cache
