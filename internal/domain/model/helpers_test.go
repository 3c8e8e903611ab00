package model

// Test helper functions for creating pointers.
func stringPtr(s string) *string     { return &s }
func intPtr(i int) *int              { return &i }
func boolPtr(b bool) *bool           { return &b }
func siteTypePtr(t SiteType) *SiteType { return &t }
