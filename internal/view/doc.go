// Package view holds headless view models for the console screens. Each
// model owns its request state and exposes a snapshot through State, so
// a renderer only has to draw what it is handed
package view
