// Package devicesync reconciles the Microsoft Intune managed device list
// into the local asset inventory. Matching is by Intune device ID first and
// serial number second; devices with neither match become new assets with
// auto-generated tags. Assignments follow the device's user principal name,
// and assets that disappear from Intune are marked lost or, optionally,
// soft-deleted.
//
// A run against an unchanged remote list performs no writes.
package devicesync
