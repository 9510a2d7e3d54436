// Package models lists the OpenAI models usable by glossa: text-to-speech
// models for reading aloud and chat models for speech drafting and
// translation.
package models
