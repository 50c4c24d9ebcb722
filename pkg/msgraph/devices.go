package msgraph

import (
	"context"
	"time"
)

// ManagedDevice is the subset of the Intune managedDevice resource consumed
// by the asset sync.
type ManagedDevice struct {
	ID                string    `json:"id"`
	DeviceName        string    `json:"deviceName"`
	SerialNumber      string    `json:"serialNumber"`
	UserPrincipalName string    `json:"userPrincipalName"`
	OperatingSystem   string    `json:"operatingSystem"`
	OSVersion         string    `json:"osVersion"`
	Model             string    `json:"model"`
	Manufacturer      string    `json:"manufacturer"`
	ComplianceState   string    `json:"complianceState"`
	EnrolledDateTime  time.Time `json:"enrolledDateTime"`
	LastSyncDateTime  time.Time `json:"lastSyncDateTime"`
}

type managedDevicePage struct {
	Value    []ManagedDevice `json:"value"`
	NextLink string          `json:"@odata.nextLink"`
}

// ListManagedDevices pages through every Intune-managed device in the
// tenant, following @odata.nextLink until exhausted.
func (c *Client) ListManagedDevices(ctx context.Context) ([]ManagedDevice, error) {
	var devices []ManagedDevice

	next := c.baseURL + "/deviceManagement/managedDevices"
	for next != "" {
		var page managedDevicePage
		if err := c.get(ctx, next, &page); err != nil {
			return nil, err
		}
		devices = append(devices, page.Value...)
		next = page.NextLink
	}

	return devices, nil
}
