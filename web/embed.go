package web

import "embed"

// StaticFS embeds the ledger client (html/js/css).
//
//go:embed static/*
var StaticFS embed.FS
