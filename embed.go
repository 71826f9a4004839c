package pagesblog

import "embed"

// EmbeddedAssets contains the stylesheet and script shipped with the site:
// style.css, blog.js
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
