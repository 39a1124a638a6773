package services

import "github.com/wavelength/sociogram/internal/cms"

// Cx is the backend client every service goes through. Assigned once
// during boot, swapped for a stub client in tests.
var Cx *cms.Client
