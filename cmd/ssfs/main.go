package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/simplefs/ssfs/pkg/ssfs"
	"github.com/simplefs/ssfs/pkg/types"
	"github.com/simplefs/ssfs/pkg/vdisk"
)

func main() {
	app := &cli.App{
		Name:  "ssfs",
		Usage: "manipulate SSFS disk images",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "image",
				Aliases:  []string{"f"},
				Usage:    "path to the disk image",
				EnvVars:  []string{"SSFS_IMAGE"},
				Required: true,
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "image",
				Usage: "create a zeroed disk image",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "sectors",
						Aliases:  []string{"s"},
						Usage:    "image size in 1024-byte sectors",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					dev, err := vdisk.Create(
						c.String("image"),
						types.Sector(c.Int("sectors")),
					)
					if err != nil {
						return err
					}
					return dev.Close()
				},
			},
			{
				Name:  "format",
				Usage: "install a filesystem on a blank image",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "inodes",
						Aliases: []string{"i"},
						Usage:   "minimum number of inodes",
						Value:   10,
					},
				},
				Action: func(c *cli.Context) error {
					var volume ssfs.Volume
					return volume.Format(c.String("image"), c.Int("inodes"))
				},
			},
			{
				Name:  "info",
				Usage: "print the superblock and per-inode usage",
				Action: func(c *cli.Context) error {
					return withVolume(c, info)
				},
			},
			{
				Name:  "create",
				Usage: "create a file and print its inode number",
				Action: func(c *cli.Context) error {
					return withVolume(c, func(v *ssfs.Volume) error {
						ino, err := v.Create()
						if err != nil {
							return err
						}
						fmt.Println(ino)
						return nil
					})
				},
			},
			{
				Name:  "write",
				Usage: "write data into a file at an offset",
				Flags: []cli.Flag{
					inoFlag(),
					offsetFlag(),
					&cli.StringFlag{
						Name:    "data",
						Aliases: []string{"d"},
						Usage:   "literal bytes to write",
					},
					&cli.StringFlag{
						Name:    "input",
						Aliases: []string{"in"},
						Usage:   "file to copy into the volume",
					},
				},
				Action: func(c *cli.Context) error {
					data := []byte(c.String("data"))
					if path := c.String("input"); path != "" {
						var err error
						data, err = os.ReadFile(path)
						if err != nil {
							return err
						}
					}
					return withVolume(c, func(v *ssfs.Volume) error {
						n, err := v.Write(
							types.Ino(c.Int("ino")),
							data,
							types.Byte(c.Int64("offset")),
						)
						if err != nil {
							return err
						}
						fmt.Printf("wrote %d bytes\n", n)
						return nil
					})
				},
			},
			{
				Name:  "read",
				Usage: "read bytes from a file to stdout",
				Flags: []cli.Flag{
					inoFlag(),
					offsetFlag(),
					&cli.Int64Flag{
						Name:    "count",
						Aliases: []string{"c"},
						Usage:   "bytes to read (default: rest of the file)",
						Value:   -1,
					},
				},
				Action: func(c *cli.Context) error {
					return withVolume(c, func(v *ssfs.Volume) error {
						ino := types.Ino(c.Int("ino"))
						count := types.Byte(c.Int64("count"))
						if count < 0 {
							size, err := v.Stat(ino)
							if err != nil {
								return err
							}
							count = size
						}
						buf := make([]byte, count)
						n, err := v.Read(
							ino,
							buf,
							types.Byte(c.Int64("offset")),
						)
						if err != nil {
							return err
						}
						_, err = os.Stdout.Write(buf[:n])
						return err
					})
				},
			},
			{
				Name:  "stat",
				Usage: "print a file's size in bytes",
				Flags: []cli.Flag{inoFlag()},
				Action: func(c *cli.Context) error {
					return withVolume(c, func(v *ssfs.Volume) error {
						size, err := v.Stat(types.Ino(c.Int("ino")))
						if err != nil {
							return err
						}
						fmt.Println(size)
						return nil
					})
				},
			},
			{
				Name:  "rm",
				Usage: "delete a file and free its sectors",
				Flags: []cli.Flag{inoFlag()},
				Action: func(c *cli.Context) error {
					return withVolume(c, func(v *ssfs.Volume) error {
						return v.Delete(types.Ino(c.Int("ino")))
					})
				},
			},
			{
				Name:  "demo",
				Usage: "format the image and run the hello-world round trip",
				Action: func(c *cli.Context) error {
					return demo(c.String("image"))
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func inoFlag() cli.Flag {
	return &cli.IntFlag{
		Name:     "ino",
		Aliases:  []string{"n"},
		Usage:    "inode number",
		Required: true,
	}
}

func offsetFlag() cli.Flag {
	return &cli.Int64Flag{
		Name:    "offset",
		Aliases: []string{"o"},
		Usage:   "byte offset into the file",
	}
}

// withVolume mounts the image, runs `fn`, and unmounts, preferring
// fn's error over the unmount error.
func withVolume(c *cli.Context, fn func(*ssfs.Volume) error) error {
	var volume ssfs.Volume
	if err := volume.Mount(c.String("image")); err != nil {
		return err
	}
	err := fn(&volume)
	if unmountErr := volume.Unmount(); err == nil {
		err = unmountErr
	}
	return err
}

func info(v *ssfs.Volume) error {
	super, err := v.Superblock()
	if err != nil {
		return err
	}
	fmt.Printf("sectors:       %d\n", super.SectorCount)
	fmt.Printf("inode sectors: %d\n", super.InodeSectors)
	fmt.Printf("inodes:        %d\n", super.InodeCount())
	fmt.Printf("data sectors:  %d\n", super.SectorCount-super.DataStart())

	for ino := types.Ino(0); ino < super.InodeCount(); ino++ {
		size, err := v.Stat(ino)
		if err != nil {
			continue // free inode
		}
		sectors, err := v.Usage(ino)
		if err != nil {
			return err
		}
		fmt.Printf(
			"inode %d: %d bytes, %d sectors\n",
			ino,
			size,
			len(sectors),
		)
	}
	return nil
}

// demo mirrors the reference driver: format, mount, create, write,
// read back, stat, delete, unmount.
func demo(path string) error {
	var volume ssfs.Volume

	fmt.Println("formatting...")
	if err := volume.Format(path, 10); err != nil {
		return err
	}

	fmt.Println("mounting...")
	if err := volume.Mount(path); err != nil {
		return err
	}

	fmt.Println("creating file...")
	ino, err := volume.Create()
	if err != nil {
		return err
	}

	message := []byte("Hello, SSFS!")
	fmt.Printf("writing to inode %d...\n", ino)
	if _, err := volume.Write(ino, message, 0); err != nil {
		return err
	}

	fmt.Println("reading back...")
	buf := make([]byte, 100)
	n, err := volume.Read(ino, buf, 0)
	if err != nil {
		return err
	}
	fmt.Printf("read content: %s\n", buf[:n])

	size, err := volume.Stat(ino)
	if err != nil {
		return err
	}
	fmt.Printf("file size: %d bytes\n", size)

	fmt.Println("deleting file...")
	if err := volume.Delete(ino); err != nil {
		return err
	}

	fmt.Println("unmounting...")
	return volume.Unmount()
}
