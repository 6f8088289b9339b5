// Package discovery browses mDNS/DNS-SD for Android TV Remote Protocol v2
// endpoints (service type "_androidtvremote2._tcp" in domain "local.") and
// resolves a chosen service to an IPv4 DeviceEndpoint.
package discovery
